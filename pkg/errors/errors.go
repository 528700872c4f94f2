// Package errors provides structured error types used across the application.
// We prefer these over raw fmt.Errorf strings to enable reliable checks with
// errors.As and to keep caller-visible messages separate from internal detail.
package errors

import (
	"fmt"
)

// ValidationError indicates invalid input provided by a caller. Its message
// is safe to surface verbatim to the caller.
type ValidationError struct {
	Op  string // where it happened (package.Function)
	Msg string // human friendly message, no internals
	Err error  // underlying cause (optional)
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("validation: %s: %s: %v", e.Op, e.Msg, e.Err)
	}
	return fmt.Sprintf("validation: %s: %s", e.Op, e.Msg)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Message returns the caller-safe message.
func (e *ValidationError) Message() string { return e.Msg }

func NewValidation(op, msg string, err error) error {
	return &ValidationError{Op: op, Msg: msg, Err: err}
}

// DBError represents corpus/storage access failures. Full detail is for
// server-side logs only; callers get a generic failure.
type DBError struct {
	Op  string
	Msg string
	Err error
}

func (e *DBError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("db: %s: %s: %v", e.Op, e.Msg, e.Err)
	}
	return fmt.Sprintf("db: %s: %s", e.Op, e.Msg)
}

func (e *DBError) Unwrap() error { return e.Err }

func NewDB(op, msg string, err error) error { return &DBError{Op: op, Msg: msg, Err: err} }

// BizError is for domain logic failures that aren't programmer bugs,
// e.g. refusing to create an entity that already exists.
type BizError struct {
	Op  string
	Msg string
	Err error
}

func (e *BizError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("biz: %s: %s: %v", e.Op, e.Msg, e.Err)
	}
	return fmt.Sprintf("biz: %s: %s", e.Op, e.Msg)
}

func (e *BizError) Unwrap() error { return e.Err }

func (e *BizError) Message() string { return e.Msg }

func NewBiz(op, msg string, err error) error { return &BizError{Op: op, Msg: msg, Err: err} }
