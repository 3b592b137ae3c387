// Package reports implements a minimal client for the Admin SDK Reports API.
// It exposes the activities.list method, one page at a time, and the list of
// valid application names from the API's discovery document.
package reports

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/gwsexport/gwsexport/internal/constants"
	"github.com/gwsexport/gwsexport/internal/fileutils"
)

var (
	// ErrEmptyApplication is returned when the requested application name is an empty string.
	ErrEmptyApplication = errors.New("application name cannot be an empty string")
)

// ActivitiesPage is a single page of activities.list results.
// Items are opaque activity records, passed through unmodified.
type ActivitiesPage struct {
	Items         []json.RawMessage `json:"items"`
	NextPageToken string            `json:"nextPageToken"`
}

// Client is an abstraction of the Reports API endpoints used by the exporter.
type Client struct {
	http    *http.Client
	baseURL string
	userKey string
}

type options struct {
	// Private members exported for tests.
	baseURL string
	userKey string
}

// Options represents an optional function to override Client default values.
type Options func(*options)

// New returns a new Client using hc for all requests.
func New(hc *http.Client, args ...Options) *Client {
	opts := options{
		baseURL: constants.DefaultBaseURL,
		userKey: constants.DefaultUserKey,
	}
	for _, opt := range args {
		opt(&opts)
	}

	return &Client{
		http:    hc,
		baseURL: opts.baseURL,
		userKey: opts.userKey,
	}
}

// ListActivities fetches one page of activity records for the given application.
//
// startTime, endTime and pageToken are forwarded verbatim when non-empty. The
// returned page carries the continuation token for the next call, or an empty
// token when the listing is exhausted.
func (c *Client) ListActivities(ctx context.Context, application, startTime, endTime, pageToken string) (ActivitiesPage, error) {
	if application == "" {
		return ActivitiesPage{}, ErrEmptyApplication
	}

	u := fmt.Sprintf("%s/admin/reports/v1/activity/users/%s/applications/%s",
		c.baseURL, url.PathEscape(c.userKey), url.PathEscape(application))

	q := url.Values{}
	if startTime != "" {
		q.Set("startTime", startTime)
	}
	if endTime != "" {
		q.Set("endTime", endTime)
	}
	if pageToken != "" {
		q.Set("pageToken", pageToken)
	}
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	var page ActivitiesPage
	if err := c.get(ctx, u, &page); err != nil {
		return ActivitiesPage{}, fmt.Errorf("failed to list %s activities: %w", application, err)
	}

	return page, nil
}

// ApplicationNames returns the valid applicationName values for activities.list,
// as published in the API's discovery document.
//
// This is the complete list of valid options; some may not be enabled on a
// particular account.
func (c *Client) ApplicationNames(ctx context.Context) ([]string, error) {
	var doc struct {
		Resources struct {
			Activities struct {
				Methods struct {
					List struct {
						Parameters struct {
							ApplicationName struct {
								Enum []string `json:"enum"`
							} `json:"applicationName"`
						} `json:"parameters"`
					} `json:"list"`
				} `json:"methods"`
			} `json:"activities"`
		} `json:"resources"`
	}

	if err := c.get(ctx, c.baseURL+constants.DiscoveryPath, &doc); err != nil {
		return nil, fmt.Errorf("failed to fetch discovery document: %w", err)
	}

	names := doc.Resources.Activities.Methods.List.Parameters.ApplicationName.Enum
	if len(names) == 0 {
		return nil, errors.New("discovery document contains no application names")
	}

	return names, nil
}

// get issues a GET request and decodes the JSON response body into v.
func (c *Client) get(ctx context.Context, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %v", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send HTTP request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status code: %d: %s", resp.StatusCode, body)
	}

	return fileutils.ParseJSON(resp.Body, v)
}
