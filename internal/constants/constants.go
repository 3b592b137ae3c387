// Package constants is responsible for defining the constants used in the application.
package constants

import (
	"log/slog"
	"slices"
)

var (
	// Version is the version of the application.
	Version = "Dev"
)

const (
	// CmdName is the name of the command line tool.
	CmdName = "gwsexport"

	// DefaultLogLevel is the default log level selected without any verbosity flags.
	DefaultLogLevel = slog.LevelInfo

	// LogFileSuffix is the suffix appended to the application name to form the output file name.
	LogFileSuffix = "_logs.json"

	// TimeFormat is the layout used to format request window boundaries, in UTC.
	TimeFormat = "2006-01-02T15:04:05Z"

	// AuditScope grants read-only access to audit activity reports.
	AuditScope = "https://www.googleapis.com/auth/admin.reports.audit.readonly"

	// AlertsScope grants access to the alert center.
	AlertsScope = "https://www.googleapis.com/auth/apps.alerts"

	// DefaultBaseURL is the base URL of the Admin SDK Reports API.
	DefaultBaseURL = "https://admin.googleapis.com"

	// DiscoveryPath is the path of the reports_v1 discovery document, relative to the base URL.
	DiscoveryPath = "/$discovery/rest?version=reports_v1"

	// DefaultUserKey selects activity from all users in the domain.
	DefaultUserKey = "all"
)

// defaultApplications are the applications collected when none are requested explicitly.
// This is the complete list of applicationName values accepted by the activities.list
// method. Some may not be enabled on a particular account.
var defaultApplications = []string{
	"chrome", "admin", "access_transparency", "context_aware_access", "gplus",
	"data_studio", "mobile", "groups_enterprise", "calendar", "chat", "gcp",
	"drive", "groups", "keep", "meet", "jamboard", "login", "token", "rules",
	"saml", "user_accounts",
}

// DefaultApplications returns the list of applications collected by default.
func DefaultApplications() []string {
	return slices.Clone(defaultApplications)
}
