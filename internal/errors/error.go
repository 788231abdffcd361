package errors

import (
	stderrors "errors"
	"fmt"
)

// Category represents the type of error.
type Category string

const (
	CategoryConfig      Category = "config"
	CategoryServer      Category = "server"
	CategoryUsage       Category = "usage"
	CategoryRuntime     Category = "runtime"
	CategoryEnvironment Category = "environment"
	CategoryProcess     Category = "process"
)

// DisplayError is a structured error with a stable code, a fix suggestion and
// an optional wrapped cause.
type DisplayError struct {
	// Code is a unique error identifier (e.g., "W001").
	Code string

	// Category is the error type (config, server, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of this occurrence.
	Detail string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *DisplayError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *DisplayError) Unwrap() error {
	return e.Wrapped
}

// WithSuggestion adds a fix suggestion to the error.
func (e *DisplayError) WithSuggestion(s string) *DisplayError {
	e.Suggestion = s
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *DisplayError) WithDetail(d string) *DisplayError {
	e.Detail = d
	return e
}

// WithDetailf adds a formatted detail to the error.
func (e *DisplayError) WithDetailf(format string, args ...any) *DisplayError {
	e.Detail = fmt.Sprintf(format, args...)
	return e
}

// Wrap wraps another error.
func (e *DisplayError) Wrap(err error) *DisplayError {
	e.Wrapped = err
	return e
}

// New creates a DisplayError from a registered error code.
func New(code string) *DisplayError {
	template, ok := registry[code]
	if !ok {
		return &DisplayError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &DisplayError{
		Code:       code,
		Category:   template.Category,
		Message:    template.Message,
		Suggestion: template.Suggestion,
	}
}

// HasCode reports whether any DisplayError in err's chain carries code.
func HasCode(err error, code string) bool {
	for err != nil {
		var de *DisplayError
		if !stderrors.As(err, &de) {
			return false
		}
		if de.Code == code {
			return true
		}
		err = de.Wrapped
	}
	return false
}

// CodeOf returns the code of the outermost DisplayError in err's chain.
func CodeOf(err error) string {
	var de *DisplayError
	if stderrors.As(err, &de) {
		return de.Code
	}
	return ""
}
