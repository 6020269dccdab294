package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration reports a malformed connection string or an
	// unreachable store.
	ErrConfiguration = errors.New("configuration error")

	// ErrValidation reports malformed caller input.
	ErrValidation = errors.New("validation error")

	// ErrConflict reports a write that violates a uniqueness constraint.
	ErrConflict = errors.New("conflict")

	// ErrNotFound reports a lookup by identity that matched nothing.
	ErrNotFound = errors.New("not found")

	// ErrPersistence reports a transport or transaction failure.
	ErrPersistence = errors.New("persistence error")
)

// NotFound returns an ErrNotFound naming the missing record
func NotFound(kind string, id any) error {
	return fmt.Errorf("%s %v: %w", kind, id, ErrNotFound)
}

// Conflict returns an ErrConflict naming the offending field
func Conflict(kind, field string, value any) error {
	return fmt.Errorf("%s with %s %v already exists: %w", kind, field, value, ErrConflict)
}

// Invalid returns an ErrValidation with a formatted reason
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// IsExpected reports whether err is an outcome the caller is meant to
// handle (not found, conflict, validation) rather than a failure of the
// system itself.
func IsExpected(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrValidation)
}
