package repositories

import "errors"

// Sentinel errors returned by all repository implementations. Services
// translate these into their own error taxonomy.
var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a write violates a unique constraint.
	ErrDuplicate = errors.New("duplicate record")
)
