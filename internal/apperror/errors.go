// Package apperror defines the error taxonomy shared by the service and HTTP
// layers. Every error carries an HTTP status code, a machine-readable type
// tag, and a message that is safe to show to the client. The HTTP boundary
// maps an *AppError to a response exactly once; raw database or
// infrastructure errors are never returned to the client.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is the single error shape used across the application.
type AppError struct {
	// Code is the HTTP status code.
	Code int `json:"-"`

	// Type is a machine-readable classifier, e.g. "conflict".
	Type string `json:"type"`

	// Message is a human-readable description safe for the client.
	Message string `json:"message"`

	// Internal holds the underlying error for logging. Never exposed.
	Internal error `json:"-"`
}

func (e *AppError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %s (internal: %v)", e.Type, e.Message, e.Internal)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap exposes the underlying error to errors.Is/As.
func (e *AppError) Unwrap() error {
	return e.Internal
}

// Expected reports whether the error is a normal user-input outcome rather
// than an operational failure. Expected errors are not logged as failures.
func (e *AppError) Expected() bool {
	return e.Code < http.StatusInternalServerError
}

// NewValidation creates a 400 for a missing or empty required field.
func NewValidation(message string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Type: "validation", Message: message}
}

// NewConflict creates a 409, used for duplicate-email registration.
func NewConflict(message string) *AppError {
	return &AppError{Code: http.StatusConflict, Type: "conflict", Message: message}
}

// NewNotFound creates a 404 for an unknown login email or missing record.
func NewNotFound(message string) *AppError {
	return &AppError{Code: http.StatusNotFound, Type: "not_found", Message: message}
}

// NewInvalidCredentials creates a 401 for a wrong password.
func NewInvalidCredentials() *AppError {
	return &AppError{Code: http.StatusUnauthorized, Type: "invalid_credentials", Message: "invalid credentials"}
}

// NewUnauthorized creates a 401 for a missing or unverifiable token.
func NewUnauthorized(message string) *AppError {
	return &AppError{Code: http.StatusUnauthorized, Type: "unauthorized", Message: message}
}

// NewForbidden creates a 403 for an ownership violation.
func NewForbidden(message string) *AppError {
	return &AppError{Code: http.StatusForbidden, Type: "forbidden", Message: message}
}

// NewConfiguration creates a 500 for missing process configuration, such as
// an absent signing secret. The real cause stays in Internal.
func NewConfiguration(err error) *AppError {
	return &AppError{
		Code:     http.StatusInternalServerError,
		Type:     "configuration",
		Message:  "server configuration error",
		Internal: err,
	}
}

// NewStore creates a 500 for an underlying persistence failure. The client
// sees a generic message; the cause stays in Internal for logging.
func NewStore(err error) *AppError {
	return &AppError{
		Code:     http.StatusInternalServerError,
		Type:     "internal_error",
		Message:  "internal server error",
		Internal: err,
	}
}

// NewInternal creates a generic 500.
func NewInternal(err error) *AppError {
	return &AppError{
		Code:     http.StatusInternalServerError,
		Type:     "internal_error",
		Message:  "internal server error",
		Internal: err,
	}
}

// From extracts an *AppError from err, or wraps err as a generic internal
// error so the boundary always has a status and a safe message.
func From(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return NewInternal(err)
}
