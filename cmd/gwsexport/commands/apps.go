package commands

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
)

func installAppsCmd(app *App) {
	appsCmd := &cobra.Command{
		Use:   "apps",
		Short: "List valid application names",
		Long: `List the application names accepted by the reporting API.

The list is fetched from the API's discovery document. It is the complete list of
valid options; some may not be enabled on a particular account.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.appsRun(cmd.Context())
		},
	}

	app.cmd.AddCommand(appsCmd)
}

func (a App) appsRun(ctx context.Context) error {
	// The discovery document is public, no credentials required.
	client := a.newReportsClient(&http.Client{Timeout: 30 * time.Second})

	names, err := client.ApplicationNames(ctx)
	if err != nil {
		return fmt.Errorf("failed to list application names: %w", err)
	}

	for _, name := range names {
		fmt.Println(name)
	}
	return nil
}
