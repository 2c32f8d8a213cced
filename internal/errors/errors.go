// Package errors contains helper functions for wrapping errors with stack traces.
package errors

import (
	"fmt"

	goerrors "github.com/go-errors/errors"
)

// New wraps the given error, or creates one from the given string or value, in an Error type that contains
// the stack trace. If the given error already has a stack trace, it is used directly. If the value is nil, return nil.
func New(val any) error {
	if val == nil {
		return nil
	}

	if err, ok := val.(error); ok && ContainsStackTrace(err) {
		return err
	}

	return goerrors.Wrap(val, 1)
}

// Errorf creates a new error and wraps in an Error type that contains the stack trace.
func Errorf(message string, args ...any) error {
	err := fmt.Errorf(message, args...) //nolint:err113
	return goerrors.Wrap(err, 1)
}

// WithStackTraceAndPrefix wraps the given error in an Error type that contains the stack trace and has the given message prepended as part of
// the error message. If the given error is nil, return nil.
func WithStackTraceAndPrefix(err error, message string, args ...any) error {
	if err == nil {
		return nil
	}

	return goerrors.WrapPrefix(err, fmt.Sprintf(message, args...), 1)
}
