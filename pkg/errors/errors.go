// Package errors provides structured error types for seatplan.
//
// Every failure that crosses a package boundary carries a [Code] so callers
// (CLI, HTTP API, terminal editor) can decide how to surface it without
// string matching:
//
//   - VALIDATION: a layout or request violates a model invariant; nothing was written
//   - NOT_FOUND: a referenced layout or wedding no longer exists
//   - PERMISSION_DENIED: the caller does not own the document it tried to change
//   - PERSISTENCE: the document store failed a read or write
//
// # Usage
//
//	err := errors.New(errors.ErrCodeValidation, "layout name cannot be empty")
//	if errors.Is(err, errors.ErrCodeValidation) {
//	    // show to the user, do not retry
//	}
//
//	// Wrap driver errors
//	err := errors.Wrap(errors.ErrCodePersistence, dbErr, "save assignments for %s", id)
package errors

import (
	"errors"
	"fmt"
)

// Code classifies an [Error]. Codes are stable strings; the API sends them
// to clients unchanged.
type Code string

const (
	ErrCodeValidation   Code = "VALIDATION"
	ErrCodeInvalidInput Code = "INVALID_INPUT"
	ErrCodeNotFound     Code = "NOT_FOUND"

	ErrCodeUnauthorized     Code = "UNAUTHORIZED"
	ErrCodePermissionDenied Code = "PERMISSION_DENIED"

	ErrCodePersistence Code = "PERSISTENCE"
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error carries a [Code], a message safe to show to users and, for wrapped
// failures, the underlying cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

// Error formats the error as "CODE: message", followed by ": cause" when
// a cause is attached.
func (e *Error) Error() string {
	msg := string(e.Code) + ": " + e.Message
	if e.Cause == nil {
		return msg
	}
	return msg + ": " + e.Cause.Error()
}

// Unwrap returns the cause so stdlib errors.Is and errors.As can see it.
func (e *Error) Unwrap() error { return e.Cause }

// New returns an Error with code and a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap is New with a cause attached.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	e := New(code, format, args...)
	e.Cause = cause
	return e
}

// outermost finds the first *Error in err's chain.
func outermost(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// Is reports whether the outermost *Error in err's chain has code.
func Is(err error, code Code) bool {
	e, ok := outermost(err)
	return ok && e.Code == code
}

// GetCode returns the code of the outermost *Error in err's chain, or ""
// when there is none.
func GetCode(err error) Code {
	if e, ok := outermost(err); ok {
		return e.Code
	}
	return ""
}

// UserMessage returns the message of the outermost *Error without its code
// or cause. Other errors are returned as their Error string.
func UserMessage(err error) string {
	if e, ok := outermost(err); ok {
		return e.Message
	}
	return err.Error()
}

// Validation reports input that violates a layout or seating invariant.
// It is shorthand for New(ErrCodeValidation, ...).
func Validation(format string, args ...any) *Error {
	return New(ErrCodeValidation, format, args...)
}

// NotFound reports a layout or wedding that does not exist.
// It is shorthand for New(ErrCodeNotFound, ...).
func NotFound(format string, args ...any) *Error {
	return New(ErrCodeNotFound, format, args...)
}

// PermissionDenied reports a caller acting on a document it may not view
// or edit. It is shorthand for New(ErrCodePermissionDenied, ...).
func PermissionDenied(format string, args ...any) *Error {
	return New(ErrCodePermissionDenied, format, args...)
}

// Persistence wraps a storage failure. A nil cause returns nil so callers
// can write `return errors.Persistence(err, "...")` unconditionally.
func Persistence(cause error, format string, args ...any) error {
	if cause == nil {
		return nil
	}
	return Wrap(ErrCodePersistence, cause, format, args...)
}
