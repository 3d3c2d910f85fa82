// Package errors provides error handling utilities.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Type identifies the category of error
type Type string

const (
	// TypeValidation indicates bad run configuration or migration input.
	// Validation errors are fatal and pre-empt all remote writes.
	TypeValidation Type = "VALIDATION_ERROR"

	// TypeInput indicates an input row defect (non-fatal, row dropped)
	TypeInput Type = "INPUT_ERROR"

	// TypeParsing indicates a file parsing error
	TypeParsing Type = "PARSING_ERROR"

	// TypeNotFound indicates a missing catalog or remote entity
	TypeNotFound Type = "NOT_FOUND"

	// TypeRate indicates a missing exchange rate
	TypeRate Type = "RATE_ERROR"

	// TypeAuth indicates an authentication or permission failure.
	// Auth failures during apply abort all remaining batches.
	TypeAuth Type = "AUTH_ERROR"

	// TypeRemote indicates a remote service failure
	TypeRemote Type = "REMOTE_ERROR"

	// TypeInternal indicates an internal error
	TypeInternal Type = "INTERNAL_ERROR"
)

// Error represents a domain error with context
type Error struct {
	Type    Type           `json:"type"`
	Message string         `json:"message"`
	Cause   error          `json:"-"`
	Context map[string]any `json:"context,omitempty"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is checks if the error is of a specific type
func (e *Error) Is(t Type) bool {
	return e.Type == t
}

// WithContext adds context to the error
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// New creates a new error
func New(errType Type, message string) *Error {
	return &Error{
		Type:    errType,
		Message: message,
	}
}

// Newf creates a new formatted error
func Newf(errType Type, format string, args ...any) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an error with context
func Wrap(errType Type, message string, cause error) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Cause:   cause,
	}
}

// Wrapf wraps an error with formatted context
func Wrapf(errType Type, cause error, format string, args ...any) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// IsType checks if an error (or any error it wraps) is of a specific type
func IsType(err error, t Type) bool {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Type == t
	}
	return false
}

// Validation creates a validation error
func Validation(message string) *Error {
	return New(TypeValidation, message)
}

// Validationf creates a formatted validation error
func Validationf(format string, args ...any) *Error {
	return Newf(TypeValidation, format, args...)
}

// Input creates an input error
func Input(message string) *Error {
	return New(TypeInput, message)
}

// Parsing creates a parsing error
func Parsing(message string, cause error) *Error {
	return Wrap(TypeParsing, message, cause)
}

// NotFound creates a not found error
func NotFound(entity, identifier string) *Error {
	return Newf(TypeNotFound, "%s not found: %s", entity, identifier)
}

// RateUnavailable creates a missing exchange rate error
func RateUnavailable(from, to string) *Error {
	return Newf(TypeRate, "no exchange rate from %s to %s", from, to)
}

// Auth creates an authentication error
func Auth(message string, cause error) *Error {
	return Wrap(TypeAuth, message, cause)
}

// Remote creates a remote service error
func Remote(message string, cause error) *Error {
	return Wrap(TypeRemote, message, cause)
}

// Internal creates an internal error
func Internal(message string, cause error) *Error {
	return Wrap(TypeInternal, message, cause)
}
