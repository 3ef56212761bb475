// Package faults defines the error taxonomy shared by the services and the
// HTTP layer. Validation failures are rejected before any write and are
// recoverable by the caller; not-found failures map to 404s; database
// failures are logged with context and surfaced generically.
package faults

import (
	"errors"
	"fmt"
)

// ValidationError reports malformed or inconsistent input.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Validation builds a ValidationError from a format string.
func Validation(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// NotFoundError reports a missing resource.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return e.Resource + " not found"
	}
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// NotFound builds a NotFoundError for the named resource.
func NotFound(resource, id string) error {
	return &NotFoundError{Resource: resource, ID: id}
}

// DatabaseError wraps a persistence-layer failure. The wrapped error is kept
// for logs; callers should surface only the generic message.
type DatabaseError struct {
	Op  string
	Err error
}

func (e *DatabaseError) Error() string {
	return fmt.Sprintf("database error in %s: %v", e.Op, e.Err)
}

func (e *DatabaseError) Unwrap() error { return e.Err }

// Database wraps err as a DatabaseError for the given operation. A nil err
// returns nil.
func Database(op string, err error) error {
	if err == nil {
		return nil
	}
	return &DatabaseError{Op: op, Err: err}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var n *NotFoundError
	return errors.As(err, &n)
}

// IsDatabase reports whether err is a DatabaseError.
func IsDatabase(err error) bool {
	var d *DatabaseError
	return errors.As(err, &d)
}
