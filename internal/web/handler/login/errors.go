package login

// notices are shown above the login form for ?message=<key>.
var notices = map[string]string{ //nolint:gochecknoglobals
	"logged-out":       "You have been signed out.",
	"password-updated": "Your password was changed. Please sign in again.",
	"registered":       "Your account is ready. Please sign in.",
}

// problems are shown above the login form for ?error=<key>.
var problems = map[string]string{ //nolint:gochecknoglobals
	"session-error":   "Your session could not be verified. Please sign in again.",
	"session-expired": "Your session has expired. Please sign in again.",
}

// Notice returns the text of a ?message key, empty when unknown.
func Notice(key string) string {
	return notices[key]
}

// Problem returns the text of an ?error key, empty when unknown.
func Problem(key string) string {
	return problems[key]
}
