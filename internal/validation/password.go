// Package validation provides input validation utilities.
package validation

import (
	"fmt"
	"strings"
	"unicode"
)

// PasswordPolicy decides whether a password is acceptable for an account.
// Username and email give the policy context to reject passwords that are
// too similar to the account's own identifiers.
type PasswordPolicy interface {
	Validate(password, username, email string) error
}

// DefaultPasswordPolicy rejects short, purely numeric, common, or
// identifier-derived passwords.
type DefaultPasswordPolicy struct {
	MinLength int
}

// NewDefaultPasswordPolicy creates a policy with a minimum length of 8.
func NewDefaultPasswordPolicy() *DefaultPasswordPolicy {
	return &DefaultPasswordPolicy{MinLength: 8}
}

var commonPasswords = map[string]struct{}{
	"password":   {},
	"password1":  {},
	"12345678":   {},
	"123456789":  {},
	"qwerty123":  {},
	"iloveyou":   {},
	"letmein1":   {},
	"welcome1":   {},
	"admin123":   {},
	"sunshine":   {},
	"football":   {},
	"princess":   {},
	"baseball":   {},
	"dragon123":  {},
	"trustno1":   {},
	"passw0rd":   {},
	"monkey123":  {},
	"abc12345":   {},
	"11111111":   {},
	"qwertyuiop": {},
}

// Validate checks the password against every rule of the policy.
func (p *DefaultPasswordPolicy) Validate(password, username, email string) error {
	if len(password) < p.MinLength {
		return fmt.Errorf("password must be at least %d characters long", p.MinLength)
	}

	if len(password) > 128 {
		return fmt.Errorf("password must not exceed 128 characters")
	}

	allDigits := true
	for _, r := range password {
		if !unicode.IsDigit(r) {
			allDigits = false
			break
		}
	}
	if allDigits {
		return fmt.Errorf("password cannot be entirely numeric")
	}

	if _, ok := commonPasswords[strings.ToLower(password)]; ok {
		return fmt.Errorf("password is too common")
	}

	lower := strings.ToLower(password)
	if username != "" && len(username) >= 4 && strings.Contains(lower, strings.ToLower(username)) {
		return fmt.Errorf("password is too similar to the username")
	}
	// Compare against the local part of the email address only.
	if local, _, found := strings.Cut(email, "@"); found && len(local) >= 4 && strings.Contains(lower, strings.ToLower(local)) {
		return fmt.Errorf("password is too similar to the email address")
	}

	return nil
}
