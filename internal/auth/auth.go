// Package auth is the implementation of the authenticator component.
// The authenticator loads a service account key file and produces an HTTP client
// authorized for read-only access to the Reports API, acting on behalf of a
// delegated principal in the domain.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/ubuntu/decorate"
	"golang.org/x/oauth2/google"

	"github.com/gwsexport/gwsexport/internal/constants"
)

// scopes are the OAuth scopes requested for the service account.
var scopes = []string{constants.AuditScope, constants.AlertsScope}

// NewClient returns an HTTP client authenticated as the service account in the
// key file at credsPath, with domain-wide delegation to subject.
//
// A missing or malformed key file is an error; no recovery is attempted.
func NewClient(ctx context.Context, credsPath, subject string) (client *http.Client, err error) {
	defer decorate.OnError(&err, "could not load service account credentials")

	if credsPath == "" {
		return nil, errors.New("credentials path cannot be an empty string")
	}
	if subject == "" {
		return nil, errors.New("delegated principal cannot be an empty string")
	}

	data, err := os.ReadFile(credsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read key file: %v", err)
	}

	conf, err := google.JWTConfigFromJSON(data, scopes...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse key file: %v", err)
	}
	conf.Subject = subject

	return conf.Client(ctx), nil
}
