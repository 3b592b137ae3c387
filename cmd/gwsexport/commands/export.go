package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gwsexport/gwsexport/internal/constants"
	"github.com/gwsexport/gwsexport/internal/exporter"
)

// errNoApplications is returned when the apps argument resolves to an empty list.
var errNoApplications = errors.New("no applications requested")

// run performs the export with the resolved configuration.
func (a *App) run(ctx context.Context) error {
	conf := a.config

	if conf.CredsPath == "" {
		a.cmd.SilenceUsage = false
		return errors.New("creds-path must be set, either as a flag or in the configuration file")
	}
	if conf.DelegatedCreds == "" {
		a.cmd.SilenceUsage = false
		return errors.New("delegated-creds must be set, either as a flag or in the configuration file")
	}
	if conf.OutputPath == "" {
		a.cmd.SilenceUsage = false
		return errors.New("output-path must be set, either as a flag or in the configuration file")
	}
	var start, end time.Time
	if conf.Daily {
		if conf.StartTime == "" || conf.EndTime == "" {
			a.cmd.SilenceUsage = false
			return errors.New("daily requires both start-time and end-time")
		}
		var err error
		start, end, err = parseRange(conf.StartTime, conf.EndTime)
		if err != nil {
			a.cmd.SilenceUsage = false
			return err
		}
	}

	hc, err := a.newHTTPClient(ctx, conf.CredsPath, conf.DelegatedCreds)
	if err != nil {
		return err
	}
	client := a.newReportsClient(hc)

	applications, err := resolveApplications(ctx, client, conf.Apps)
	if err != nil {
		if errors.Is(err, errNoApplications) {
			a.cmd.SilenceUsage = false
		}
		return err
	}

	exp, err := exporter.New(client, conf.OutputPath, applications, conf.Update, conf.Overwrite)
	if err != nil {
		return err
	}

	runID := uuid.NewString()
	slog.Info("Starting export", "run", runID, "applications", len(applications), "update", conf.Update, "overwrite", conf.Overwrite)

	var totals exporter.Totals
	if conf.Daily {
		for _, w := range exporter.DayWindows(start, end) {
			from := w.Start.UTC().Format(constants.TimeFormat)
			to := w.End.UTC().Format(constants.TimeFormat)
			slog.Info("Collecting logs", "run", runID, "from", from, "to", to)

			t, err := exp.Export(ctx, from, to)
			if err != nil {
				return err
			}
			totals.Saved += t.Saved
			totals.Found += t.Found
		}
	} else {
		totals, err = exp.Export(ctx, conf.StartTime, conf.EndTime)
		if err != nil {
			return err
		}
	}

	slog.Info("Export finished", "run", runID, "saved", totals.Saved, "found", totals.Found)
	return nil
}

// resolveApplications turns the apps argument into a list of application names.
// The special value "all" fetches the valid names from the discovery document.
func resolveApplications(ctx context.Context, client ReportsClient, apps string) ([]string, error) {
	if strings.EqualFold(strings.TrimSpace(apps), "all") {
		names, err := client.ApplicationNames(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch application names: %w", err)
		}
		return names, nil
	}

	var applications []string
	for _, app := range strings.Split(apps, ",") {
		app = strings.ToLower(strings.TrimSpace(app))
		if app != "" {
			applications = append(applications, app)
		}
	}
	if len(applications) == 0 {
		return nil, errNoApplications
	}

	return applications, nil
}

// parseRange parses the start and end times of the requested range.
func parseRange(startTime, endTime string) (start, end time.Time, err error) {
	start, err = time.Parse(time.RFC3339, startTime)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid start-time: %v", err)
	}
	end, err = time.Parse(time.RFC3339, endTime)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid end-time: %v", err)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, errors.New("end-time is before start-time")
	}
	return start, end, nil
}
