package identity

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is the machine readable kind of an AuthError.
type Code string

const (
	CodeInvalidCredentials Code = "INVALID_CREDENTIALS"
	CodeEmailNotConfirmed  Code = "EMAIL_NOT_CONFIRMED"
	CodeTooManyRequests    Code = "TOO_MANY_REQUESTS"
	CodeUserNotFound       Code = "USER_NOT_FOUND"
	CodeWeakPassword       Code = "WEAK_PASSWORD"
	CodeEmailAlreadyExists Code = "EMAIL_ALREADY_EXISTS"
	CodeNetworkError       Code = "NETWORK_ERROR"
	CodeServerError        Code = "SERVER_ERROR"
	CodeUnauthorized       Code = "UNAUTHORIZED"
	CodeForbidden          Code = "FORBIDDEN"
	CodeSessionExpired     Code = "SESSION_EXPIRED"
	CodeValidationError    Code = "VALIDATION_ERROR"
	CodeBadRequest         Code = "BAD_REQUEST"
	CodeRateLimited        Code = "RATE_LIMITED"
	CodeTimeout            Code = "TIMEOUT"
	CodeParseError         Code = "PARSE_ERROR"
	CodeUnknown            Code = "UNKNOWN_ERROR"
)

var defaultUserMessages = map[Code]string{ //nolint:gochecknoglobals
	CodeInvalidCredentials: "Invalid email or password. Please check your credentials and try again.",
	CodeEmailNotConfirmed:  "Your account needs to be verified. Please check your email.",
	CodeTooManyRequests:    "Too many login attempts. Please wait a few minutes before trying again.",
	CodeUserNotFound:       "No account found with this email address.",
	CodeWeakPassword:       "Password must be at least 6 characters long.",
	CodeEmailAlreadyExists: "An account with this email already exists.",
	CodeNetworkError:       "Connection error. Please check your internet connection.",
	CodeServerError:        "Server error. Please try again later.",
	CodeUnauthorized:       "You do not have permission to perform this action.",
	CodeSessionExpired:     "Your session has expired. Please sign in again.",
	CodeValidationError:    "The provided data is invalid. Please check your information.",
	CodeRateLimited:        "Too many requests. Please wait a moment before trying again.",
	CodeForbidden:          "You do not have permission to perform this action.",
	CodeBadRequest:         "Invalid request data. Please verify your information.",
	CodeParseError:         "Unable to process server response. Please try again.",
	CodeTimeout:            "Request timeout. Please check your connection and try again.",
}

// DefaultUserMessage returns the user facing text for code.
func DefaultUserMessage(code Code) string {
	if msg, ok := defaultUserMessages[code]; ok {
		return msg
	}

	return "An unexpected error occurred. Please try again later."
}

// AuthError is the only error type returned by the Client.
//
// Message is meant for logs, UserMessage may be shown to the user.
type AuthError struct {
	Code        Code
	Status      int
	Message     string
	UserMessage string
	Err         error
}

// NewAuthError returns an AuthError with the default user message of code.
func NewAuthError(code Code, status int, message string) *AuthError {
	return &AuthError{
		Code:        code,
		Status:      status,
		Message:     message,
		UserMessage: DefaultUserMessage(code),
	}
}

func (e *AuthError) Error() string {
	s := fmt.Sprintf("identity: %s (%d): %s", e.Code, e.Status, e.Message)
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}

	return s
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// Is reports whether target is an AuthError with the same code.
// This allows errors.Is(err, identity.ErrUnauthorized).
func (e *AuthError) Is(target error) bool {
	var t *AuthError
	if !errors.As(target, &t) {
		return false
	}

	return t.Code == e.Code
}

// Sentinels for errors.Is checks.
var (
	ErrInvalidCredentials = &AuthError{Code: CodeInvalidCredentials}
	ErrUnauthorized       = &AuthError{Code: CodeUnauthorized}
	ErrTimeout            = &AuthError{Code: CodeTimeout}
	ErrNetwork            = &AuthError{Code: CodeNetworkError}
)

// AsAuthError normalises err. Errors that are not an AuthError become UNKNOWN_ERROR.
func AsAuthError(err error) *AuthError {
	if err == nil {
		return nil
	}

	var ae *AuthError
	if errors.As(err, &ae) {
		return ae
	}

	return &AuthError{
		Code:        CodeUnknown,
		Status:      http.StatusInternalServerError,
		Message:     err.Error(),
		UserMessage: DefaultUserMessage(CodeUnknown),
		Err:         err,
	}
}

// providerError is the error body of the identity provider.
// Depending on the endpoint code is the http status or a string code.
type providerError struct {
	Code             any    `json:"code"`
	ErrorCode        string `json:"error_code"`
	Msg              string `json:"msg"`
	Message          string `json:"message"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func (p providerError) text() string {
	for _, s := range []string{p.Msg, p.Message, p.ErrorDescription, p.Error} {
		if s != "" {
			return s
		}
	}

	return "unknown error"
}

// providerCode returns the symbolic error code, wherever the provider put it.
func (p providerError) providerCode() string {
	if p.ErrorCode != "" {
		return p.ErrorCode
	}

	if s, ok := p.Code.(string); ok && s != "" {
		return s
	}

	return p.Error
}

type mappedCode struct {
	code        Code
	userMessage string
}

// providerCodes maps provider error codes before the status table is consulted.
var providerCodes = map[string]mappedCode{ //nolint:gochecknoglobals
	"invalid_credentials": {CodeInvalidCredentials,
		"Invalid email or password. Please verify that your credentials are correct."},
	"invalid_grant": {CodeInvalidCredentials,
		"Invalid email or password. Please verify that your credentials are correct."},
	"email_not_confirmed": {CodeEmailNotConfirmed,
		"Your account needs to be verified. Please check your email and click the confirmation link."},
	"too_many_requests": {CodeTooManyRequests,
		"Too many login attempts. Please wait a few minutes before trying again."},
	"over_request_rate_limit": {CodeTooManyRequests,
		"Too many login attempts. Please wait a few minutes before trying again."},
	"user_not_found": {CodeUserNotFound,
		"No account found with this email. Please verify the email or create a new account."},
	"weak_password": {CodeWeakPassword,
		"Password must be at least 6 characters long and more secure."},
	"email_exists": {CodeEmailAlreadyExists,
		"An account with this email already exists. Try signing in or recovering your password."},
	"user_already_exists": {CodeEmailAlreadyExists,
		"An account with this email already exists. Try signing in or recovering your password."},
	"email_already_exists": {CodeEmailAlreadyExists,
		"An account with this email already exists. Try signing in or recovering your password."},
	"validation_failed": {CodeValidationError,
		"Invalid request. Please check your information and try again."},
	"invalid_request": {CodeValidationError,
		"Invalid request. Please check your information and try again."},
}

// statusCodes maps the http status when the provider code is unknown.
var statusCodes = map[int]mappedCode{ //nolint:gochecknoglobals
	http.StatusBadRequest: {CodeBadRequest,
		"Invalid request data. Please verify your information and try again."},
	http.StatusUnauthorized: {CodeUnauthorized,
		"Invalid credentials or expired session. Please sign in again."},
	http.StatusForbidden: {CodeForbidden,
		"You do not have permission to perform this action."},
	http.StatusUnprocessableEntity: {CodeValidationError,
		"The provided data is invalid. Please verify your information."},
	http.StatusTooManyRequests: {CodeRateLimited,
		"Too many requests. Please wait a few minutes before trying again."},
}

// mapProviderError turns a non 2xx response into an AuthError.
func mapProviderError(p providerError, status int) *AuthError {
	m, ok := providerCodes[p.providerCode()]

	switch {
	case ok:
	case statusCodes[status].code != "":
		m = statusCodes[status]
	case status >= http.StatusInternalServerError:
		m = mappedCode{CodeServerError, "Server error. Please try again later or contact support."}
	default:
		m = mappedCode{CodeUnknown, DefaultUserMessage(CodeUnknown)}
	}

	return &AuthError{
		Code:        m.code,
		Status:      status,
		Message:     p.text(),
		UserMessage: m.userMessage,
	}
}
