// Package errors provides structured error types for deplint.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI, the HTTP API and the pipeline
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// The analysis core raises four unrecoverable kinds:
//   - REGISTRY_ERROR: the registry fetch returned a non-success status or failed
//   - VERSION_RESOLUTION: no dist-tag or published version satisfies a range
//   - GRAPH_STATE: a session graph was read before it was set, or set twice
//   - NODE_NOT_FOUND: a lookup referenced an id absent from the graph
//
// # Usage
//
//	err := errors.New(errors.ErrCodeVersionResolution, "no version of %s matches %s", name, rng)
//	if errors.Is(err, errors.ErrCodeVersionResolution) {
//	    // Handle resolution failure
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeRegistry, origErr, "fetch %s", url)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Analysis core errors
	ErrCodeRegistry          Code = "REGISTRY_ERROR"
	ErrCodeVersionResolution Code = "VERSION_RESOLUTION"
	ErrCodeGraphState        Code = "GRAPH_STATE"
	ErrCodeNodeNotFound      Code = "NODE_NOT_FOUND"

	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// HTTPStatus maps an error code to the status the HTTP API answers with.
func (c Code) HTTPStatus() int {
	switch c {
	case ErrCodeInvalidInput, ErrCodeInvalidConfig:
		return 400
	case ErrCodeVersionResolution:
		return 404
	case ErrCodeRegistry:
		return 502
	default:
		return 500
	}
}
