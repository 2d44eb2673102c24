// Package errors provides structured error types for situationroom.
//
// Every failure a user can cause carries a [Code]. The HTTP API maps codes
// to statuses and the CLI prints [UserMessage]. Decode failures of share
// tokens are not errors at all: the codec returns nil and logs.
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - *_NOT_FOUND: Resource not found
//   - UNKNOWN_*: References to things the registry does not know about
//   - STORAGE / INTERNAL_*: Backend and unexpected failures
//
// # Usage
//
//	err := errors.New(errors.ErrCodeUnknownWidgetType, "unknown widget type: %s", t)
//	if errors.Is(err, errors.ErrCodeUnknownWidgetType) {
//	    // Programmer error: the type was never registered
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeStorage, origErr, "save state to %s", path)
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
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidToken  Code = "INVALID_TOKEN"
	ErrCodeInvalidTheme  Code = "INVALID_THEME"
	ErrCodeInvalidLayout Code = "INVALID_LAYOUT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"

	// Registry errors
	ErrCodeUnknownWidgetType Code = "UNKNOWN_WIDGET_TYPE"

	// Resource not found errors
	ErrCodeNotFound          Code = "NOT_FOUND"
	ErrCodeDashboardNotFound Code = "DASHBOARD_NOT_FOUND"
	ErrCodeWidgetNotFound    Code = "WIDGET_NOT_FOUND"

	// Backend errors
	ErrCodeStorage Code = "STORAGE"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
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

// UnknownWidgetType returns the error raised when a widget type tag is used
// where a registered definition is mandatory.
func UnknownWidgetType(t string) *Error {
	return New(ErrCodeUnknownWidgetType, "unknown widget type: %s", t)
}

// DashboardNotFound reports a dashboard id missing from the state.
func DashboardNotFound(id string) *Error {
	return New(ErrCodeDashboardNotFound, "dashboard not found: %s", id)
}

// WidgetNotFound reports a widget id missing from its dashboard.
func WidgetNotFound(id string) *Error {
	return New(ErrCodeWidgetNotFound, "widget not found: %s", id)
}

// IsNotFound reports whether err carries any of the not-found codes.
func IsNotFound(err error) bool {
	switch GetCode(err) {
	case ErrCodeNotFound, ErrCodeDashboardNotFound, ErrCodeWidgetNotFound:
		return true
	}
	return false
}
