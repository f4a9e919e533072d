package core

import (
	"errors"
	"fmt"
)

// ValidationError reports the first input constraint an operation failed.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NotFoundError reports an operation targeting a record id that does not exist.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

// InvalidStateError reports an operation that is illegal in the record's
// current lifecycle state, e.g. paying a loan that is already paid off.
type InvalidStateError struct {
	Op    string
	State string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("%s not allowed in state %q", e.Op, e.State)
}

// IOError wraps a persistence failure. The in-memory state of the ledger is
// already updated when this is returned; the caller decides whether to retry.
type IOError struct {
	Op  string
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func NotFound(kind, id string) error {
	return &NotFoundError{Kind: kind, ID: id}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var nfe *NotFoundError
	return errors.As(err, &nfe)
}

// IsInvalidState reports whether err is (or wraps) an InvalidStateError.
func IsInvalidState(err error) bool {
	var ise *InvalidStateError
	return errors.As(err, &ise)
}

// IsIO reports whether err is (or wraps) an IOError.
func IsIO(err error) bool {
	var ioe *IOError
	return errors.As(err, &ioe)
}
