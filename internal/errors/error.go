package errors

import (
	stderrors "errors"
	"fmt"
)

// Category represents the type of error.
type Category string

const (
	CategoryConfig Category = "config"
	CategoryHost   Category = "host"
	CategoryCLI    Category = "cli"
)

// ToastError is a structured error with a code, detail and suggestion.
type ToastError struct {
	// Code is a unique error identifier (e.g., "T101").
	Code string

	// Category is the error type.
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Field names the configuration field at fault, if any.
	Field string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *ToastError) Error() string {
	msg := e.Message
	if e.Field != "" {
		msg = e.Field + ": " + msg
	}
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, msg)
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *ToastError) Unwrap() error {
	return e.Wrapped
}

// Is reports whether target is a ToastError with the same code, or the
// same category when target carries no code.
func (e *ToastError) Is(target error) bool {
	t, ok := target.(*ToastError)
	if !ok {
		return false
	}
	if t.Code != "" {
		return t.Code == e.Code
	}
	return t.Category != "" && t.Category == e.Category
}

// WithDetail adds a detailed explanation to the error.
func (e *ToastError) WithDetail(d string) *ToastError {
	e.Detail = d
	return e
}

// WithField records the offending configuration field.
func (e *ToastError) WithField(f string) *ToastError {
	e.Field = f
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *ToastError) WithSuggestion(s string) *ToastError {
	e.Suggestion = s
	return e
}

// Wrap wraps another error.
func (e *ToastError) Wrap(err error) *ToastError {
	e.Wrapped = err
	return e
}

// New creates a ToastError from a registered error code.
func New(code string) *ToastError {
	template, ok := registry[code]
	if !ok {
		return &ToastError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &ToastError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
	}
}

// Newf creates a new ToastError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *ToastError {
	return &ToastError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a ToastError.
func FromError(err error, code string) *ToastError {
	if err == nil {
		return nil
	}
	var te *ToastError
	if stderrors.As(err, &te) {
		return te
	}
	return New(code).Wrap(err)
}

// Match is a comparison target for errors.Is that matches every error of
// the given category.
func Match(category Category) error {
	return &ToastError{Category: category}
}
