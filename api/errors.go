// Package api
// Author: momentics <momentics@gmail.com>
//
// Error taxonomy for ring operations and error handling utilities.

package api

import (
	"errors"
	"fmt"
)

// Rejection reasons reported by the Try* operations.
var (
	ErrFull             = errors.New("ring is full")
	ErrEmpty            = errors.New("ring is empty")
	ErrPushDisabled     = errors.New("push gate is closed")
	ErrPopDisabled      = errors.New("pop gate is closed")
	ErrPushBackOverflow = errors.New("push-back exceeds free capacity")
	ErrPushBackStale    = errors.New("push-back exceeds intact popped elements")
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrBacklogFull      = errors.New("backlog limit reached")
	ErrNotSupported     = errors.New("operation not supported")
)

// ErrorCode represents specific error conditions in the library.
type ErrorCode int

const (
	ErrCodeOK ErrorCode = iota
	ErrCodeInvalidArgument
	ErrCodeNoCapacity
	ErrCodeNoData
	ErrCodeGated
	ErrCodeInternal
)

// CodeOf maps a sentinel to its code; unknown errors are ErrCodeInternal.
func CodeOf(err error) ErrorCode {
	switch {
	case err == nil:
		return ErrCodeOK
	case errors.Is(err, ErrInvalidArgument):
		return ErrCodeInvalidArgument
	case errors.Is(err, ErrFull), errors.Is(err, ErrPushBackOverflow),
		errors.Is(err, ErrPushBackStale), errors.Is(err, ErrBacklogFull):
		return ErrCodeNoCapacity
	case errors.Is(err, ErrEmpty):
		return ErrCodeNoData
	case errors.Is(err, ErrPushDisabled), errors.Is(err, ErrPopDisabled):
		return ErrCodeGated
	default:
		return ErrCodeInternal
	}
}

// Error represents a structured error with code and context.
type Error struct {
	Code    ErrorCode
	Message string
	Context map[string]any
	cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if len(e.Context) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (context: %+v)", e.Message, e.Context)
}

// Unwrap exposes the sentinel the error was built from.
func (e *Error) Unwrap() error { return e.cause }

// NewError creates a new structured error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Context: make(map[string]any),
	}
}

// Wrap builds a structured error around a sentinel, keeping errors.Is working.
func Wrap(cause error, message string) *Error {
	e := NewError(CodeOf(cause), fmt.Sprintf("%s: %v", message, cause))
	e.cause = cause
	return e
}

// WithContext adds context information to the error.
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}
