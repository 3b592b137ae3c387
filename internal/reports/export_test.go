package reports

// WithBaseURL overrides the base URL of the API.
func WithBaseURL(url string) Options {
	return func(o *options) {
		o.baseURL = url
	}
}

// WithUserKey overrides the userKey request parameter.
func WithUserKey(key string) Options {
	return func(o *options) {
		o.userKey = key
	}
}
