// Package apperr provides the application error type used across service
// and HTTP boundaries. Every failure that may cross the HTTP boundary is an
// *Error with a machine-readable kind, a fixed external message, and the
// HTTP status it maps to. Internal causes are carried for logging but are
// never serialized to clients.
package apperr

import (
	"fmt"
	"net/http"
)

// Kind is a machine-readable error code.
type Kind string

const (
	// KindAlreadyRegistered indicates a registration attempt for a taken username.
	KindAlreadyRegistered Kind = "ALREADY_REGISTERED"
	// KindInvalidCredentials is the merged login failure. Unknown user and
	// wrong password both collapse into this kind so the response body is
	// byte-identical for either cause.
	KindInvalidCredentials Kind = "INVALID_CREDENTIALS"
	// KindTokenMissing indicates no access_token was supplied.
	KindTokenMissing Kind = "TOKEN_MISSING"
	// KindTokenExpired indicates the token's expiry has passed.
	KindTokenExpired Kind = "TOKEN_EXPIRED"
	// KindTokenInvalid indicates a bad signature or malformed token.
	KindTokenInvalid Kind = "TOKEN_INVALID"
	// KindValidation indicates invalid request input.
	KindValidation Kind = "VALIDATION"
	// KindNotFound indicates the requested resource does not exist.
	KindNotFound Kind = "NOT_FOUND"
	// KindInternal is the fallback for unclassified faults.
	KindInternal Kind = "INTERNAL_ERROR"
)

// Error is the unified application error.
type Error struct {
	Kind       Kind           `json:"code"`
	Message    string         `json:"message"`
	HTTPStatus int            `json:"-"`
	Details    map[string]any `json:"details,omitempty"`
	Cause      error          `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause and returns the receiver.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// Is reports whether target is an *Error of the same Kind. This lets
// callers match sentinel errors with errors.Is without comparing messages.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// --- Constructors ---

// AlreadyRegistered reports a registration attempt for a taken username.
func AlreadyRegistered(username string) *Error {
	return &Error{
		Kind:       KindAlreadyRegistered,
		Message:    fmt.Sprintf("Username %s is already registered", username),
		HTTPStatus: http.StatusBadRequest,
	}
}

// InvalidCredentials is the single external login failure. The message is
// fixed: it must not reveal whether the username or the password was wrong.
func InvalidCredentials() *Error {
	return &Error{
		Kind:       KindInvalidCredentials,
		Message:    "Invalid username or password",
		HTTPStatus: http.StatusBadRequest,
	}
}

// TokenMissing reports an absent access_token on a protected route.
func TokenMissing() *Error {
	return &Error{
		Kind:       KindTokenMissing,
		Message:    "An access_token must be provided",
		HTTPStatus: http.StatusUnauthorized,
	}
}

// TokenExpired reports a token whose expiry has passed.
func TokenExpired() *Error {
	return &Error{
		Kind:       KindTokenExpired,
		Message:    "Expired access_token",
		HTTPStatus: http.StatusUnauthorized,
	}
}

// TokenInvalid reports a token with a bad signature or malformed structure.
func TokenInvalid() *Error {
	return &Error{
		Kind:       KindTokenInvalid,
		Message:    "Invalid access_token",
		HTTPStatus: http.StatusForbidden,
	}
}

// TokenProcessing reports an unexpected fault while decoding a token.
func TokenProcessing(cause error) *Error {
	return &Error{
		Kind:       KindInternal,
		Message:    "Error processing access_token",
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// Validation reports invalid request input.
func Validation(message string) *Error {
	return &Error{
		Kind:       KindValidation,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// MissingField reports a required field absent from the request body.
func MissingField(field string) *Error {
	return &Error{
		Kind:       KindValidation,
		Message:    fmt.Sprintf("Field '%s' must not be empty", field),
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"field": field},
	}
}

// NotFound reports a missing resource.
func NotFound(resource string) *Error {
	return &Error{
		Kind:       KindNotFound,
		Message:    fmt.Sprintf("The requested %s was not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"resource": resource},
	}
}

// Internal wraps an unclassified fault. The external message is generic;
// the cause is kept for server-side logging only.
func Internal(cause error) *Error {
	return &Error{
		Kind:       KindInternal,
		Message:    "An unexpected error occurred",
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}
