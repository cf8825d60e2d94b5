package yaerrors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/YaCodeDev/GoYaCodeDevDispatch/yalogger"
)

// Package yaerrors provides a custom error type with additional functionality like
// error codes, wrapping, and unwrapping. Codes follow HTTP status semantics so that a
// transport layer can map a dispatch failure onto a response without inspecting
// the message.
//
// Errors produced here are compatible with the standard library: errors.Is and
// errors.As walk through Unwrap down to the original cause.
type Error interface {
	error
	Wrap(msg string) Error
	WrapWithLog(msg string, log yalogger.Logger) Error
	Code() int
	Error() string
	Unwrap() error
	UnwrapLastError() string
}

const (
	codeSeparate  = " | "
	errorSeparate = " -> "
)

// Minimal error implementation for Error interface.
type yaError struct {
	code      int
	cause     error
	traceback string
}

// FromError generates a new Error from an existing error with a custom code and message.
// It wraps the original error with additional context and returns a new Error instance.
func FromError(code int, cause error, wrap string) Error {
	return &yaError{
		code:      code,
		cause:     cause,
		traceback: fmt.Sprintf("%s: %v", wrap, cause),
	}
}

// FromErrorWithLog is FromError that also reports the message through log.
func FromErrorWithLog(code int, cause error, wrap string, log yalogger.Logger) Error {
	msg := fmt.Sprintf("%s: %v", wrap, cause)
	log.Error(msg)

	return &yaError{
		code:      code,
		cause:     cause,
		traceback: msg,
	}
}

// FromString generates a new Error from a string message with a custom code.
func FromString(code int, msg string) Error {
	return &yaError{
		code:      code,
		cause:     errors.New(msg), //nolint:err113
		traceback: msg,
	}
}

// FromStringWithLog is FromString that also reports the message through log.
func FromStringWithLog(code int, msg string, log yalogger.Logger) Error {
	log.Error(msg)

	return FromString(code, msg)
}

// Error returns the error code and traceback message as a string.
func (e *yaError) Error() string {
	safetyCheck(&e)

	return fmt.Sprintf("%d%s%s", e.code, codeSeparate, e.traceback)
}

// Unwrap returns the original error that caused this error.
func (e *yaError) Unwrap() error {
	safetyCheck(&e)

	return e.cause
}

// Is reports whether target is an Error sharing the same root cause. It lets
// package-level sentinels declared as Error survive Wrap.
func (e *yaError) Is(target error) bool {
	safetyCheck(&e)

	var other *yaError
	if !errors.As(target, &other) || other == nil {
		return false
	}

	return e.cause != nil && e.cause == other.cause
}

// UnwrapLastError returns the outermost message of the traceback.
func (e *yaError) UnwrapLastError() string {
	safetyCheck(&e)

	end := strings.Index(e.traceback, errorSeparate)
	if end == -1 {
		return e.traceback
	}

	return e.traceback[:end]
}

// Wrap adds a message to the error traceback, providing additional context.
// It is highly recommended to use this method each time you return the error
// to a higher level in the call stack.
//
// Wrap returns a copy, the receiver is left untouched, so package-level
// sentinel errors may be wrapped freely.
func (e *yaError) Wrap(msg string) Error {
	safetyCheck(&e)

	return &yaError{
		code:      e.code,
		cause:     e.cause,
		traceback: fmt.Sprintf("%s%s%s", msg, errorSeparate, e.traceback),
	}
}

// WrapWithLog is Wrap that also reports msg through log.
func (e *yaError) WrapWithLog(msg string, log yalogger.Logger) Error {
	log.Error(msg)

	return e.Wrap(msg)
}

// Code returns the error code associated with this error.
func (e *yaError) Code() int {
	safetyCheck(&e)

	return e.code
}

// safetyCheck replaces a nil receiver with the "developer is a teapot" error
// so that calling a method on a nil *yaError never panics.
func safetyCheck(err **yaError) {
	if *err == nil {
		*err = &yaError{
			code:      http.StatusTeapot,
			cause:     ErrTeapot,
			traceback: ErrTeapot.Error(),
		}
	}
}
