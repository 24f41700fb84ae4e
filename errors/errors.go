package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// Core taxonomy, surfaced synchronously to the initiating caller.
	ErrAuthentication = fmt.Errorf("authentication required")
	ErrValidation     = fmt.Errorf("invalid request")
	ErrPersistence    = fmt.Errorf("durable store unavailable")
	ErrNotFound       = fmt.Errorf("not found")

	// Account flow.
	ErrUserAlreadyExists  = fmt.Errorf("user already exists")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	ErrInvalidPassword    = fmt.Errorf("password does not meet complexity rules")
	ErrTokenGeneration    = fmt.Errorf("token generation failed")

	// Supervision.
	ErrWorkerPanic = fmt.Errorf("worker panic")
	ErrEmptyWords  = fmt.Errorf("no censored words have been found")
)

// MapToHTTPStatus converts a domain error into the HTTP status the REST
// boundary answers with. Unknown errors are treated as internal.
func MapToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrAuthentication):
		return http.StatusForbidden
	case errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrInvalidPassword),
		errors.Is(err, ErrUserAlreadyExists),
		errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrPersistence):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
