package commands

type (
	NewHTTPClient    = newHTTPClient
	NewReportsClient = newReportsClient
)

// SetArgs sets the arguments for the command.
func (a *App) SetArgs(args []string) {
	a.cmd.SetArgs(args)
}

// WithNewHTTPClient sets the authenticated HTTP client factory for the app.
func WithNewHTTPClient(f NewHTTPClient) Options {
	return func(o *options) {
		o.newHTTPClient = f
	}
}

// WithNewReportsClient sets the reports client factory for the app.
func WithNewReportsClient(f NewReportsClient) Options {
	return func(o *options) {
		o.newReportsClient = f
	}
}
