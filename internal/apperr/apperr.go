// Package apperr defines the application error taxonomy. Handlers and
// middleware return *Error values; a single Echo error handler converts them
// into the uniform `{message, errorCode, errors}` response body. Anything
// that is not an *Error is treated as an internal failure and never leaks
// detail to the client.
package apperr

import "net/http"

// Code identifies a failure condition to API clients. The numeric values
// are part of the external contract and must stay stable.
type Code int

const (
	CodeUserNotFound      Code = 1001
	CodeUserAlreadyExists Code = 1002
	CodeIncorrectPassword Code = 1003
	CodeTokenNotFound     Code = 1004
	CodeUnauthorized      Code = 1005
	CodeAdminOnly         Code = 1006
	CodeSelfDemotion      Code = 1007
	CodeTaskNotFound      Code = 2001
	CodeUnprocessable     Code = 2002
	CodeInternal          Code = 3001
)

// Error is an HTTP-mapped application error. Cause carries the underlying
// error for server-side diagnostics only; it is logged, never serialized.
type Error struct {
	Status  int    `json:"-"`
	Message string `json:"message"`
	Code    Code   `json:"errorCode"`
	Errs    any    `json:"errors"`
	Cause   error  `json:"-"`
}

func (e *Error) Error() string { return e.Message }

// Unwrap exposes the cause to errors.Is/As chains.
func (e *Error) Unwrap() error { return e.Cause }

// Validation reports malformed or missing input. details typically holds
// per-field messages from the validator.
func Validation(message string, details any) *Error {
	return &Error{Status: http.StatusBadRequest, Message: message, Code: CodeUnprocessable, Errs: details}
}

// BadRequest reports a business-rule rejection with a dedicated code.
// Conflicts such as a duplicate email map to 400 as well; that status is
// part of the external contract.
func BadRequest(message string, code Code) *Error {
	return &Error{Status: http.StatusBadRequest, Message: message, Code: code}
}

// NotFound reports an absent entity, or one intentionally masked from the
// caller (a foreign user's task looks exactly like a missing one).
func NotFound(message string, code Code) *Error {
	return &Error{Status: http.StatusNotFound, Message: message, Code: code}
}

// Unauthorized reports a missing, invalid, expired or revoked credential.
// All authentication failure modes share this one value so the response
// does not reveal which check failed.
func Unauthorized() *Error {
	return &Error{Status: http.StatusUnauthorized, Message: "Unauthorized", Code: CodeUnauthorized}
}

// Forbidden reports an authenticated caller lacking the required role.
func Forbidden() *Error {
	return &Error{Status: http.StatusForbidden, Message: "Access Denied. Admins only", Code: CodeAdminOnly}
}

// Internal wraps an unexpected failure. The cause stays server-side.
func Internal(cause error) *Error {
	return &Error{Status: http.StatusInternalServerError, Message: "Something went wrong!", Code: CodeInternal, Cause: cause}
}
