package actions

import (
	"net/http"

	"github.com/opticare/opticare-portal/internal/identity"
)

// Result is the answer of every action.
type Result struct {
	Success bool       `json:"success"`
	Message string     `json:"message,omitempty"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorBody `json:"error,omitempty"`
}

// ErrorBody describes a failed action. Message is safe to show.
type ErrorBody struct {
	Code    identity.Code     `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`

	status int
}

// HTTPStatus is the status code a JSON endpoint answers with.
func (r Result) HTTPStatus() int {
	switch {
	case r.Success || r.Error == nil:
		return http.StatusOK
	case r.Error.status == 0:
		// provider unreachable
		return http.StatusBadGateway
	default:
		return r.Error.status
	}
}

// Redirect returns the redirect target of a successful action, if any.
func (r Result) Redirect() string {
	if m, ok := r.Data.(map[string]any); ok {
		if s, ok := m["redirect"].(string); ok {
			return s
		}
	}

	return ""
}

func ok(message string, data any) Result {
	return Result{Success: true, Message: message, Data: data}
}

// fail turns any error into a result without leaking provider text.
func fail(err error) Result {
	ae := identity.AsAuthError(err)

	msg := ae.UserMessage
	if msg == "" {
		msg = identity.DefaultUserMessage(ae.Code)
	}

	return Result{
		Error: &ErrorBody{
			Code:    ae.Code,
			Message: msg,
			status:  ae.Status,
		},
	}
}

func failCode(code identity.Code, status int) Result {
	return Result{
		Error: &ErrorBody{
			Code:    code,
			Message: identity.DefaultUserMessage(code),
			status:  status,
		},
	}
}

func invalid(fields map[string]string) Result {
	r := failCode(identity.CodeValidationError, http.StatusBadRequest)
	r.Error.Fields = fields

	return r
}

// BadRequest is answered when a request body can not be decoded.
func BadRequest() Result {
	return failCode(identity.CodeBadRequest, http.StatusBadRequest)
}

// UnknownAction is answered for an action name that does not exist.
func UnknownAction() Result {
	return failCode(identity.CodeBadRequest, http.StatusNotFound)
}

var statusCodes = map[int]identity.Code{ //nolint:gochecknoglobals
	http.StatusBadRequest:          identity.CodeBadRequest,
	http.StatusUnauthorized:        identity.CodeUnauthorized,
	http.StatusForbidden:           identity.CodeForbidden,
	http.StatusNotFound:            identity.CodeBadRequest,
	http.StatusRequestTimeout:      identity.CodeTimeout,
	http.StatusUnprocessableEntity: identity.CodeValidationError,
	http.StatusTooManyRequests:     identity.CodeRateLimited,
}

// FromStatus is the failed Result of a plain HTTP error, e.g. a refused
// CSRF token or a missing permission.
func FromStatus(status int) Result {
	code, ok := statusCodes[status]
	if !ok {
		code = identity.CodeServerError
	}

	return failCode(code, status)
}
