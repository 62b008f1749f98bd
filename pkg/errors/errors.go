package errors

import (
	"errors"
	"net/http"
)

// Sentinel error categories
var (
	ErrValidation        = errors.New("validation error")
	ErrNotFound          = errors.New("resource not found")
	ErrPersistence       = errors.New("persistence error")
	ErrRemoteIntegration = errors.New("remote integration error")
)

// AppError is an application error carrying its HTTP mapping
type AppError struct {
	Err        error
	StatusCode int
	Message    string
}

// Error returns the error message
func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Err.Error()
}

// Unwrap returns the underlying category
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a 400 error with a field-level message
func NewValidationError(message string) *AppError {
	return &AppError{Err: ErrValidation, Message: message, StatusCode: http.StatusBadRequest}
}

// NewNotFoundError creates a 404 error
func NewNotFoundError(message string) *AppError {
	return &AppError{Err: ErrNotFound, Message: message, StatusCode: http.StatusNotFound}
}

// NewPersistenceError creates a 500 error for a failed local store operation
func NewPersistenceError(message string) *AppError {
	return &AppError{Err: ErrPersistence, Message: message, StatusCode: http.StatusInternalServerError}
}

// NewRemoteIntegrationError creates an error for a failed remote store or
// link formatting step. It never surfaces as a failed HTTP response on the
// creation path; callers downgrade it to response metadata.
func NewRemoteIntegrationError(message string) *AppError {
	return &AppError{Err: ErrRemoteIntegration, Message: message, StatusCode: http.StatusInternalServerError}
}

// StatusCode maps an error to the HTTP status it should produce
func StatusCode(err error) int {
	var appErr *AppError

	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}

	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
