package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors shared by all services. Handlers map these to HTTP status
// codes with errors.Is.
var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("resource not found")
	// ErrForbidden indicates the caller is authenticated but not the owner.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidCredentials indicates an unknown email or a password mismatch.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccountDisabled indicates a login attempt on a deactivated account.
	ErrAccountDisabled = errors.New("account disabled")
	// ErrInvalidToken indicates a missing, malformed, or expired token.
	ErrInvalidToken = errors.New("invalid token")
	// ErrConflict indicates a uniqueness violation that survived to the store.
	ErrConflict = errors.New("conflict")
)

// ValidationError carries field-level messages back to the caller.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, msg))
	}
	sort.Strings(parts)
	return "validation failed: " + strings.Join(parts, "; ")
}
