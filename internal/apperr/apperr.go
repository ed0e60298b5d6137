// Package apperr defines the error taxonomy surfaced by the HTTP layer.
// Every route handler converts failures to one of these kinds; raw store
// errors never reach a client.
package apperr

import "net/http"

// CodeTokenExpired marks an access-token expiry specifically, so clients
// can attempt a silent refresh-and-retry instead of forcing a re-login.
const CodeTokenExpired = "TOKEN_EXPIRED"

type Kind int

const (
	KindValidation Kind = iota
	KindConflict
	KindAuth
	KindNotFound
	KindInternal
)

// Error is a client-visible failure with a fixed HTTP status and an
// optional machine-readable code.
type Error struct {
	Kind    Kind
	Status  int
	Code    string
	Message string
	err     error
}

func (e *Error) Error() string {
	if e.err != nil {
		return e.Message + ": " + e.err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.err
}

// Validation reports missing or malformed input.
func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Status: http.StatusBadRequest, Message: msg}
}

// Conflict reports a duplicate resource, e.g. an already registered email.
func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Status: http.StatusBadRequest, Message: msg}
}

// Unauthorized reports bad credentials or an invalid/expired refresh token.
func Unauthorized(msg string) *Error {
	return &Error{Kind: KindAuth, Status: http.StatusUnauthorized, Message: msg}
}

// TokenExpired reports an expired access token. Unlike every other token
// failure it is retryable client-side via the refresh endpoint.
func TokenExpired() *Error {
	return &Error{Kind: KindAuth, Status: http.StatusUnauthorized, Code: CodeTokenExpired, Message: "Token expired"}
}

// Forbidden reports an access token that fails verification for any
// reason other than expiry.
func Forbidden(msg string) *Error {
	return &Error{Kind: KindAuth, Status: http.StatusForbidden, Message: msg}
}

// NotFound reports a missing resource.
func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Status: http.StatusNotFound, Message: msg}
}

// Internal wraps an unexpected store or provider failure. The wrapped
// error is logged server-side; the client only sees the message.
func Internal(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Status: http.StatusInternalServerError, Message: msg, err: err}
}
