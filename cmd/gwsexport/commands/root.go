// Package commands contains the command line interface of gwsexport.
package commands

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gwsexport/gwsexport/internal/auth"
	"github.com/gwsexport/gwsexport/internal/cli"
	"github.com/gwsexport/gwsexport/internal/constants"
	"github.com/gwsexport/gwsexport/internal/exporter"
	"github.com/gwsexport/gwsexport/internal/reports"
)

// ReportsClient lists activity pages and the valid application names.
type ReportsClient interface {
	exporter.ActivityLister
	ApplicationNames(ctx context.Context) ([]string, error)
}

type newHTTPClient func(ctx context.Context, credsPath, subject string) (*http.Client, error)
type newReportsClient func(hc *http.Client) ReportsClient

// App represents the application.
type App struct {
	cmd    *cobra.Command
	viper  *viper.Viper
	config appConfig

	newHTTPClient    newHTTPClient
	newReportsClient newReportsClient
}

// appConfig holds the configuration for the application.
// Unset flags are filled in from the configuration file, if any.
type appConfig struct {
	Quiet bool `mapstructure:"quiet"`
	Debug bool `mapstructure:"debug"`

	CredsPath      string `mapstructure:"creds-path"`
	DelegatedCreds string `mapstructure:"delegated-creds"`
	OutputPath     string `mapstructure:"output-path"`
	Apps           string `mapstructure:"apps"`
	StartTime      string `mapstructure:"start-time"`
	EndTime        string `mapstructure:"end-time"`
	Daily          bool   `mapstructure:"daily"`
	Update         bool   `mapstructure:"update"`
	Overwrite      bool   `mapstructure:"overwrite"`
}

type options struct {
	// Private members exported for tests.
	newHTTPClient    newHTTPClient
	newReportsClient newReportsClient
}

// Options represents an optional function to override App default values.
type Options func(*options)

// New creates a new App instance with default values.
func New(args ...Options) (*App, error) {
	opts := options{
		newHTTPClient: auth.NewClient,
		newReportsClient: func(hc *http.Client) ReportsClient {
			return reports.New(hc)
		},
	}
	for _, opt := range args {
		opt(&opts)
	}

	a := App{
		newHTTPClient:    opts.newHTTPClient,
		newReportsClient: opts.newReportsClient,
	}

	a.cmd = &cobra.Command{
		Use:           constants.CmdName,
		Short:         "Export Google Workspace audit logs",
		Long: `Export Google Workspace audit-log activity records to local newline-delimited JSON files.

Records are fetched from the Admin SDK Reports API with a delegated service account,
one file per application and date range. Collection can resume from the most recent
record already on disk (--update), or be split into one request window per calendar
day (--daily).`,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Command parsing has been successful. Returns to not print usage anymore.
			a.cmd.SilenceUsage = true
			cli.SetVerbosity(a.config.Quiet, a.config.Debug) // Set verbosity before loading config
			if err := cli.InitViperConfig(constants.CmdName, a.cmd, a.viper); err != nil {
				return err
			}
			if err := a.viper.Unmarshal(&a.config); err != nil {
				return fmt.Errorf("unable to decode configuration into struct: %w", err)
			}
			slog.Debug("got app config", "config", a.config)

			cli.SetVerbosity(a.config.Quiet, a.config.Debug)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd.Context())
		},
	}
	a.viper = viper.New()
	a.cmd.CompletionOptions.HiddenDefaultCmd = true

	installRootCmd(&a)
	cli.InstallConfigFlag(a.cmd)

	if err := a.viper.BindPFlags(a.cmd.PersistentFlags()); err != nil {
		return nil, err
	}
	if err := a.viper.BindPFlags(a.cmd.Flags()); err != nil {
		return nil, err
	}

	installAppsCmd(&a)
	a.installVersion()

	return &a, nil
}

func installRootCmd(app *App) {
	cmd := app.cmd

	cmd.PersistentFlags().BoolVarP(&app.config.Quiet, "quiet", "q", false, "prevent all output except errors")
	cmd.PersistentFlags().BoolVarP(&app.config.Debug, "debug", "v", false, "show debug/verbose output")

	cmd.Flags().StringVar(&app.config.CredsPath, "creds-path", "", ".json key file for the service account")
	cmd.Flags().StringVar(&app.config.DelegatedCreds, "delegated-creds", "", "principal name the service account acts on behalf of")
	cmd.Flags().StringVarP(&app.config.OutputPath, "output-path", "o", "", "folder to save downloaded logs")
	cmd.Flags().StringVarP(&app.config.Apps, "apps", "a", strings.Join(constants.DefaultApplications(), ","),
		"comma separated list of applications whose logs will be downloaded, or 'all' to attempt to download all available logs")
	cmd.Flags().StringVar(&app.config.StartTime, "start-time", "", "start collecting from date (RFC3339 format)")
	cmd.Flags().StringVar(&app.config.EndTime, "end-time", "", "collect until date (RFC3339 format)")
	cmd.Flags().BoolVar(&app.config.Daily, "daily", false, "split requests by day")
	cmd.Flags().BoolVarP(&app.config.Update, "update", "u", false, "update existing log files (if present), only saving new log records")
	cmd.Flags().BoolVar(&app.config.Overwrite, "overwrite", false, "overwrite existing log files (if present) with all requested log records")

	if err := cmd.MarkFlagFilename("creds-path", "json"); err != nil {
		// This should never happen.
		panic(fmt.Sprintf("failed to mark creds-path flag as filename: %v", err))
	}
	if err := cmd.MarkFlagDirname("output-path"); err != nil {
		// This should never happen.
		panic(fmt.Sprintf("failed to mark output-path flag as dirname: %v", err))
	}
}

// Run executes the command and associated process, returning an error if any.
func (a *App) Run() error {
	return a.cmd.Execute()
}

// UsageError returns if the error is a command parsing or runtime one.
func (a App) UsageError() bool {
	return !a.cmd.SilenceUsage
}

// RootCmd returns a copy of the root command.
func (a App) RootCmd() cobra.Command {
	return *a.cmd
}
