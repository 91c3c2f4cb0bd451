package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
// Implementing this interface enables extensible error handling.
type HTTPError interface {
	error
	StatusCode() int
}

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("state conflict")
)

// StateConflictError represents a blocked state transition, such as deleting
// a paid invoice or modifying the line items of an approved purchase order.
// Details is safe to return to the client.
type StateConflictError struct {
	Message string
	Details string
}

func (e *StateConflictError) Error() string {
	return e.Message
}

// StatusCode implements the HTTPError interface. Blocked transitions are
// reported as 400 per the public API contract, not 409.
func (e *StateConflictError) StatusCode() int { return http.StatusBadRequest }

// Is allows errors.Is() to match against ErrConflict
func (e *StateConflictError) Is(target error) bool {
	return target == ErrConflict
}

// NotFoundf wraps ErrNotFound with a resource-specific message,
// e.g. NotFoundf("Document") yields "Document not found".
func NotFoundf(resource string) error {
	return fmt.Errorf("%s %w", resource, ErrNotFound)
}

// Validationf wraps ErrValidation with a field-specific message.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
