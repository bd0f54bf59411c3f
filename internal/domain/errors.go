package domain

import (
	"errors"
	"fmt"
)

// ErrUnresolvedTenant means no tenant context could be derived from the
// inbound request. Tenant-scoped operations fail with this error; it must
// never be conflated with a generic server error.
var ErrUnresolvedTenant = errors.New("tenant could not be resolved")

// ValidationError reports a malformed or missing required domain field.
// It is always raised before any state mutation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalid(field, reason string) error {
	return ValidationError{Field: field, Reason: reason}
}

// InvariantError reports an operation attempted from a disallowed aggregate
// state. The aggregate rejects the operation and leaves its state unchanged.
type InvariantError struct {
	Op     string
	State  string
	Reason string
}

func (e InvariantError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("cannot %s in status %s: %s", e.Op, e.State, e.Reason)
	}
	return fmt.Sprintf("cannot %s in status %s", e.Op, e.State)
}

func invariant(op, state string) error {
	return InvariantError{Op: op, State: state}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}

// IsInvariant reports whether err is (or wraps) an InvariantError.
func IsInvariant(err error) bool {
	var ie InvariantError
	return errors.As(err, &ie)
}
