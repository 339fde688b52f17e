// Package errors provides structured error types for vegadoc.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the directive pipeline and CLI
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Snippet execution failures map onto three codes: SYNTAX_ERROR for
// blocks that fail to parse (or whose final statement is not an
// expression), RUNTIME_ERROR for evaluation failures, and TYPE_ERROR
// when the final value cannot be converted to a chart specification.
// IO_ERROR covers artifact directory and file writes during rendering.
//
// None of these are recovered locally: they propagate to the build
// runner, which reports the offending document and line and aborts.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeSyntax, "final statement must be an expression")
//	if errors.Is(err, errors.ErrCodeSyntax) {
//	    // Handle parse failure
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeIO, origErr, "write artifact %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Snippet execution errors
	ErrCodeSyntax  Code = "SYNTAX_ERROR"
	ErrCodeRuntime Code = "RUNTIME_ERROR"
	ErrCodeType    Code = "TYPE_ERROR"

	// Rendering errors
	ErrCodeIO Code = "IO_ERROR"

	// Input validation errors
	ErrCodeInvalidFormat  Code = "INVALID_FORMAT"
	ErrCodeInvalidOption  Code = "INVALID_OPTION"
	ErrCodeInvalidProject Code = "INVALID_PROJECT"

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
