package commands_test

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gwsexport/gwsexport/cmd/gwsexport/commands"
	"github.com/gwsexport/gwsexport/internal/reports"
	"github.com/gwsexport/gwsexport/internal/testutils"
)

type listCall struct {
	application string
	startTime   string
	endTime     string
}

// fakeReportsClient serves one page per application and a fixed discovery list.
type fakeReportsClient struct {
	pages map[string]reports.ActivitiesPage
	names []string

	calls       []listCall
	credsPath   string
	subject     string
	authErr     error
	authedCalls int
}

func (f *fakeReportsClient) ListActivities(_ context.Context, application, startTime, endTime, pageToken string) (reports.ActivitiesPage, error) {
	if pageToken == "" {
		f.calls = append(f.calls, listCall{application, startTime, endTime})
	}
	return f.pages[application], nil
}

func (f *fakeReportsClient) ApplicationNames(context.Context) ([]string, error) {
	return f.names, nil
}

func (f *fakeReportsClient) newHTTPClient(_ context.Context, credsPath, subject string) (*http.Client, error) {
	f.authedCalls++
	f.credsPath = credsPath
	f.subject = subject
	return &http.Client{}, f.authErr
}

// jsonString marshals s as a JSON string literal, escaping any path separators.
func jsonString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func newAppForTests(t *testing.T, fake *fakeReportsClient, args []string) *commands.App {
	t.Helper()

	app, err := commands.New(
		commands.WithNewHTTPClient(fake.newHTTPClient),
		commands.WithNewReportsClient(func(*http.Client) commands.ReportsClient { return fake }),
	)
	require.NoError(t, err, "Setup: could not create app")

	app.SetArgs(args)
	return app
}

func TestRun(t *testing.T) {
	fake := &fakeReportsClient{
		pages: map[string]reports.ActivitiesPage{
			"admin": {Items: []json.RawMessage{json.RawMessage(`{"id":{"time":"2024-01-01T10:00:00Z"}}`)}},
		},
	}

	outputPath := t.TempDir()
	app := newAppForTests(t, fake, []string{
		"--creds-path", "creds.json",
		"--delegated-creds", "admin@example.com",
		"--output-path", outputPath,
		"--apps", "admin",
		"--start-time", "2024-01-01T00:00:00Z",
		"--end-time", "2024-01-02T00:00:00Z",
	})

	require.NoError(t, app.Run())

	assert.Equal(t, "creds.json", fake.credsPath)
	assert.Equal(t, "admin@example.com", fake.subject)
	require.Len(t, fake.calls, 1)
	assert.Equal(t, listCall{"admin", "2024-01-01T00:00:00Z", "2024-01-02T00:00:00Z"}, fake.calls[0])

	got, err := testutils.GetDirContents(t, outputPath, 3)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"2024-01-01T00:00:00Z_2024-01-02T00:00:00Z/admin_logs.json": `{"id":{"time":"2024-01-01T10:00:00Z"}}` + "\n",
	}, got)
}

func TestRunDaily(t *testing.T) {
	fake := &fakeReportsClient{pages: map[string]reports.ActivitiesPage{}}

	outputPath := t.TempDir()
	app := newAppForTests(t, fake, []string{
		"--creds-path", "creds.json",
		"--delegated-creds", "admin@example.com",
		"--output-path", outputPath,
		"--apps", "admin",
		"--start-time", "2024-01-01T00:00:00Z",
		"--end-time", "2024-01-04T00:00:00Z",
		"--daily",
	})

	require.NoError(t, app.Run())

	want := []listCall{
		{"admin", "2024-01-01T00:00:00Z", "2024-01-02T00:00:00Z"},
		{"admin", "2024-01-02T00:00:00Z", "2024-01-03T00:00:00Z"},
		{"admin", "2024-01-03T00:00:00Z", "2024-01-04T00:00:00Z"},
	}
	assert.Equal(t, want, fake.calls, "each day should get its own request window")
}

func TestRunAllApplications(t *testing.T) {
	fake := &fakeReportsClient{
		names: []string{"admin", "drive"},
		pages: map[string]reports.ActivitiesPage{},
	}

	app := newAppForTests(t, fake, []string{
		"--creds-path", "creds.json",
		"--delegated-creds", "admin@example.com",
		"--output-path", t.TempDir(),
		"--apps", "all",
	})

	require.NoError(t, app.Run())

	require.Len(t, fake.calls, 2)
	assert.Equal(t, "admin", fake.calls[0].application)
	assert.Equal(t, "drive", fake.calls[1].application)
}

func TestRunConfigFile(t *testing.T) {
	fake := &fakeReportsClient{pages: map[string]reports.ActivitiesPage{}}

	outputPath := t.TempDir()
	config := `{
		"creds-path": "from-config.json",
		"delegated-creds": "config@example.com",
		"output-path": ` + jsonString(outputPath) + `,
		"apps": "admin"
	}`
	configPath := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(configPath, []byte(config), 0600), "Setup: failed to write config file")

	// The apps flag overrides the config file value; the rest comes from the file.
	app := newAppForTests(t, fake, []string{
		"--config", configPath,
		"--apps", "drive",
	})

	require.NoError(t, app.Run())

	assert.Equal(t, "from-config.json", fake.credsPath)
	assert.Equal(t, "config@example.com", fake.subject)
	require.Len(t, fake.calls, 1)
	assert.Equal(t, "drive", fake.calls[0].application)
}

func TestRunUsageErrors(t *testing.T) {
	tests := map[string]struct {
		args []string
	}{
		"Missing creds path":      {args: []string{"--delegated-creds", "a@b.c", "--output-path", "{out}"}},
		"Missing delegated creds": {args: []string{"--creds-path", "c.json", "--output-path", "{out}"}},
		"Missing output path":     {args: []string{"--creds-path", "c.json", "--delegated-creds", "a@b.c"}},
		"Daily without times": {args: []string{
			"--creds-path", "c.json", "--delegated-creds", "a@b.c", "--output-path", "{out}", "--daily",
		}},
		"Daily with invalid start time": {args: []string{
			"--creds-path", "c.json", "--delegated-creds", "a@b.c", "--output-path", "{out}",
			"--daily", "--start-time", "yesterday", "--end-time", "2024-01-02T00:00:00Z",
		}},
		"Empty apps": {args: []string{
			"--creds-path", "c.json", "--delegated-creds", "a@b.c", "--output-path", "{out}", "--apps", ",",
		}},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			out := t.TempDir()
			args := make([]string, 0, len(tc.args))
			for _, arg := range tc.args {
				if arg == "{out}" {
					arg = out
				}
				args = append(args, arg)
			}

			fake := &fakeReportsClient{pages: map[string]reports.ActivitiesPage{}}
			app := newAppForTests(t, fake, args)

			require.Error(t, app.Run())
			assert.True(t, app.UsageError(), "the error should be reported as a usage error")
			assert.Empty(t, fake.calls, "no activity listing should have been attempted")
		})
	}
}
