// Package errors provides structured error handling for remote-service
// failures, with a small taxonomy that drives how each failure is surfaced
// to the user (notification, fixed message, or silent recovery).
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType represents the category of error for surfacing decisions.
type ErrorType string

const (
	// TypeAuth indicates rejected credentials (HTTP 401)
	TypeAuth ErrorType = "auth"
	// TypeValidation indicates invalid input rejected by the server (HTTP 400)
	TypeValidation ErrorType = "validation"
	// TypeNotFound indicates a resource that no longer exists (HTTP 404)
	TypeNotFound ErrorType = "not_found"
	// TypeNetwork indicates a transport or server-side failure
	TypeNetwork ErrorType = "network"
)

// Error represents a structured error with type, message, and context.
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// AuthError creates a new authentication error (rejected credentials).
func AuthError(message string) *Error {
	return &Error{
		Type:    TypeAuth,
		Message: message,
		Context: make(map[string]any),
	}
}

// ValidationError creates a new validation error carrying the server's message.
func ValidationError(message string) *Error {
	return &Error{
		Type:    TypeValidation,
		Message: message,
		Context: make(map[string]any),
	}
}

// NotFoundError creates a new not-found error.
func NotFoundError(message string) *Error {
	return &Error{
		Type:    TypeNotFound,
		Message: message,
		Context: make(map[string]any),
	}
}

// NetworkError creates a new transport/server failure error.
func NetworkError(message string, cause error) *Error {
	return &Error{
		Type:    TypeNetwork,
		Message: message,
		Cause:   cause,
		Context: make(map[string]any),
	}
}

// WithContext adds context fields to the error (chainable).
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// FromStatus maps an HTTP response status to a structured error.
// The message should carry whatever detail the server body provided.
func FromStatus(status int, message string) *Error {
	switch status {
	case http.StatusUnauthorized:
		return AuthError(message)
	case http.StatusBadRequest:
		return ValidationError(message)
	case http.StatusNotFound:
		return NotFoundError(message)
	default:
		return NetworkError(message, nil)
	}
}

// IsType reports whether err is a structured error of the given type.
func IsType(err error, t ErrorType) bool {
	var structured *Error
	if errors.As(err, &structured) {
		return structured.Type == t
	}
	return false
}

// AsStructuredError converts any error into a structured Error.
// If err is already an *Error, returns it unchanged.
// Otherwise wraps it as a network error.
func AsStructuredError(err error) *Error {
	if err == nil {
		return nil
	}

	var structuredErr *Error
	if errors.As(err, &structuredErr) {
		return structuredErr
	}

	return NetworkError("request failed", err)
}

// UserMessage returns the text suitable for a user-facing notification.
func UserMessage(err error) string {
	structured := AsStructuredError(err)
	if structured == nil {
		return ""
	}
	return structured.Message
}
