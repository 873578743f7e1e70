// Package errors provides structured error types for fundamental.
//
// Errors carry a machine-readable [Code] so that the CLI, the HTTP API and
// the pipeline can classify failures the same way:
//   - FETCH_FAILED: a registry or GitHub call failed; recovered by skipping
//     the affected package, repository or contributor
//   - DATA_SHAPE: data could not be interpreted (e.g. a repository URL with
//     no owner segment); recovered by skipping with a warning
//   - CONFIG / INVALID_*: bad credentials or user input; fatal at startup
//
// # Usage
//
//	err := errors.New(errors.ErrCodeConfig, "GITHUB_API_TOKEN is not set")
//	if errors.Is(err, errors.ErrCodeConfig) {
//	    // exit non-zero
//	}
//
//	err := errors.Wrap(errors.ErrCodeFetch, origErr, "funding links for %s", pkg)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidPackage  Code = "INVALID_PACKAGE"
	ErrCodeInvalidManifest Code = "INVALID_MANIFEST"
	ErrCodeInvalidSort     Code = "INVALID_SORT"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"

	// Configuration errors (fatal at startup)
	ErrCodeConfig Code = "CONFIG"

	// Recoverable pipeline errors
	ErrCodeFetch     Code = "FETCH_FAILED"
	ErrCodeDataShape Code = "DATA_SHAPE"
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

// IsFatal reports whether err must abort the run. Only configuration and
// input errors are fatal; fetch and data-shape failures are always recovered
// by the pipeline.
func IsFatal(err error) bool {
	switch GetCode(err) {
	case ErrCodeConfig, ErrCodeInvalidInput, ErrCodeInvalidPackage,
		ErrCodeInvalidManifest, ErrCodeInvalidSort, ErrCodeInvalidFormat:
		return true
	}
	return false
}
