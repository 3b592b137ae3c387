// Package exporter is the implementation of the exporter component.
// The exporter drives paginated activity listings for a set of applications and
// writes the records to one newline-delimited JSON file per application and
// request window.
package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/ubuntu/decorate"

	"github.com/gwsexport/gwsexport/internal/constants"
	"github.com/gwsexport/gwsexport/internal/fileutils"
	"github.com/gwsexport/gwsexport/internal/reports"
)

// ActivityLister lists a single page of activity records for an application.
type ActivityLister interface {
	ListActivities(ctx context.Context, application, startTime, endTime, pageToken string) (reports.ActivitiesPage, error)
}

// Exporter is an abstraction of the exporter component.
type Exporter struct {
	lister       ActivityLister
	outputPath   string
	applications []string
	update       bool
	overwrite    bool
}

// Totals is the outcome of an export run.
type Totals struct {
	Saved int // Saved is the number of records written to disk.
	Found int // Found is the number of records returned by the API.
}

// New returns a new Exporter writing under outputPath.
func New(lister ActivityLister, outputPath string, applications []string, update, overwrite bool) (Exporter, error) {
	slog.Debug("Creating new exporter", "outputPath", outputPath, "applications", applications, "update", update, "overwrite", overwrite)

	if lister == nil {
		return Exporter{}, fmt.Errorf("activity lister cannot be nil")
	}
	if outputPath == "" {
		return Exporter{}, fmt.Errorf("output path cannot be an empty string")
	}
	if len(applications) == 0 {
		return Exporter{}, fmt.Errorf("application list cannot be empty")
	}

	if err := os.MkdirAll(outputPath, 0750); err != nil {
		return Exporter{}, fmt.Errorf("failed to create output directory: %v", err)
	}

	return Exporter{
		lister:       lister,
		outputPath:   outputPath,
		applications: applications,
		update:       update,
		overwrite:    overwrite,
	}, nil
}

// Export collects all activity records within the given window for every
// configured application.
//
// A fetch failure for one application is logged and counted as zero records
// saved and found for it; the remaining applications are still collected.
func (e Exporter) Export(ctx context.Context, startTime, endTime string) (totals Totals, err error) {
	defer decorate.OnError(&err, "export failed")

	dir := filepath.Join(e.outputPath, fmt.Sprintf("%s_%s", startTime, endTime))
	if err := os.MkdirAll(dir, 0750); err != nil {
		return Totals{}, fmt.Errorf("failed to create log path %s: %v", dir, err)
	}

	for _, app := range e.applications {
		path := filepath.Join(dir, app+constants.LogFileSuffix)

		saved, found, err := e.exportApplication(ctx, app, path, startTime, endTime)
		if err != nil {
			slog.Error("Error collecting logs", "application", app, "error", err)
			continue
		}

		slog.Info("Saved entries", "application", app, "saved", saved, "found", found)
		totals.Saved += saved
		totals.Found += found
	}

	return totals, nil
}

// exportApplication collects the activity records of a single application into
// the file at path, following continuation tokens until the listing is exhausted.
//
// In update mode the start time is moved forward to the most recent record
// already present in the file, when there is one.
func (e Exporter) exportApplication(ctx context.Context, application, path, startTime, endTime string) (saved, found int, err error) {
	if e.update {
		latest, err := LatestTimestamp(path)
		if err != nil {
			return 0, 0, fmt.Errorf("failed to read existing log file: %v", err)
		}
		if !latest.IsZero() {
			startTime = latest.UTC().Format(time.RFC3339)
			slog.Debug("Resuming from latest persisted record", "application", application, "startTime", startTime)
		}
	}

	flags := os.O_CREATE | os.O_WRONLY | os.O_APPEND
	if e.overwrite {
		// Truncate once, before the first page.
		flags = os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	}
	f, err := os.OpenFile(path, flags, 0600)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to open log file: %v", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close log file: %v", cerr)
		}
	}()

	pageToken := ""
	for {
		page, err := e.lister.ListActivities(ctx, application, startTime, endTime, pageToken)
		if err != nil {
			return 0, 0, err
		}
		found += len(page.Items)

		// The API returns the newest records first. Write each page reversed so
		// the file ends with the newest entries.
		for i := len(page.Items) - 1; i >= 0; i-- {
			if err := fileutils.WriteJSONLine(f, page.Items[i]); err != nil {
				return 0, 0, err
			}
			saved++
		}

		if page.NextPageToken == "" {
			break
		}
		pageToken = page.NextPageToken
	}

	return saved, found, nil
}
