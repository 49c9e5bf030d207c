package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in
	// the store.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an operation would create a duplicate
	// of a unique entity (e.g., an entry with an ID already persisted).
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity is returned when an entity fails validation before
	// being stored. Check the wrapped error for specific details.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrTransactionFailed is returned when a database transaction fails
	// to commit or when an operation within a transaction fails.
	ErrTransactionFailed = errors.New("transaction failed")

	// ErrEntryNotFound indicates that the requested log entry does not
	// exist in the store.
	ErrEntryNotFound = fmt.Errorf("%w: entry", ErrNotFound)
)

// IsNotFoundError reports whether the error is any kind of "not found"
// error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}
