package apperrors

import (
	"fmt"
	"net/http"
)

// AppError represents a standardized application error
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"` // Internal error for logging
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes the internal error for errors.Is / errors.As.
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError
func New(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Validation creates a 400 error for a missing or invalid field.
func Validation(message string) *AppError {
	return New(http.StatusBadRequest, message, nil)
}

// NotFound creates a 404 error
func NotFound(message string) *AppError {
	return New(http.StatusNotFound, message, nil)
}

// Conflict creates a 409 error (duplicate name etc).
func Conflict(message string) *AppError {
	return New(http.StatusConflict, message, nil)
}

// Unauthorized creates a 401 error
func Unauthorized(message string) *AppError {
	return New(http.StatusUnauthorized, message, nil)
}

// Forbidden creates a 403 error
func Forbidden(message string) *AppError {
	return New(http.StatusForbidden, message, nil)
}

// NotConfigured creates a 500 error for a missing operator-side setting.
// Every gated request fails with this until the operator configures a secret.
func NotConfigured(message string) *AppError {
	return New(http.StatusInternalServerError, message, nil)
}

// Upstream creates a 500 error carrying the upstream failure message.
func Upstream(err error) *AppError {
	return New(http.StatusInternalServerError, fmt.Sprintf("%v", err), err)
}

// Internal creates a 500 error
func Internal(err error) *AppError {
	return New(http.StatusInternalServerError, "Internal Server Error", err)
}
