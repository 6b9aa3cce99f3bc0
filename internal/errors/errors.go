package errors

import (
	"net/http"
)

// APIError is the error type every handler and service returns. Status and
// Message are safe to send to the client; Internal is logged server-side
// only.
type APIError struct {
	Status   int    `json:"-"`
	Message  string `json:"error"`
	Internal error  `json:"-"`
}

// Error returns the error message
func (e *APIError) Error() string {
	if e.Internal != nil {
		return e.Message + ": " + e.Internal.Error()
	}
	return e.Message
}

// Unwrap returns the wrapped internal error
func (e *APIError) Unwrap() error {
	return e.Internal
}

func newError(status int, message string, err error) *APIError {
	return &APIError{
		Status:   status,
		Message:  message,
		Internal: err,
	}
}

// Validation marks user-fixable input problems (missing or malformed fields).
func Validation(message string, err error) *APIError {
	return newError(http.StatusBadRequest, message, err)
}

// Unauthorized marks failed credential or token checks.
func Unauthorized(message string, err error) *APIError {
	return newError(http.StatusUnauthorized, message, err)
}

// Forbidden marks authenticated callers without the required role.
func Forbidden(message string, err error) *APIError {
	return newError(http.StatusForbidden, message, err)
}

// NotFound marks resources that are missing or not owned by the caller.
// The two cases are deliberately indistinguishable.
func NotFound(message string, err error) *APIError {
	return newError(http.StatusNotFound, message, err)
}

// Conflict marks duplicate unique fields.
func Conflict(message string, err error) *APIError {
	return newError(http.StatusConflict, message, err)
}

// Upstream marks blob-storage provider failures.
func Upstream(message string, err error) *APIError {
	return newError(http.StatusBadGateway, message, err)
}

// Internal marks everything else.
func Internal(err error) *APIError {
	return newError(http.StatusInternalServerError, "Internal server error", err)
}
