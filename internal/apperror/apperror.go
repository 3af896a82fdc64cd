// Package apperror defines the error kinds shared by the service and HTTP layers.
//
// Services return *AppError values; handlers translate the kind into an HTTP
// status and copy Message into the response body verbatim, so messages must be
// safe to show to an end user.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrValidation  = errors.New("Validation Error")
	ErrUnavailable = errors.New("unavailable")
)

type AppError struct {
	Err     error  // actual error
	Message string // Human-readable error message
	Field   string // Optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound reports a lookup that matched nothing. The message is shown as-is.
func NotFound(message string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: message,
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// Unavailable reports that a dependency (e.g. the course catalog) is not ready.
// HTTP handlers map this to 503 Service Unavailable.
func Unavailable(resource string) *AppError {
	return &AppError{
		Err:     ErrUnavailable,
		Message: fmt.Sprintf("%s is not available yet", resource),
	}
}
