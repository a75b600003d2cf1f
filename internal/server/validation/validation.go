// Package validation checks registration input before it reaches the store.
// Lengths are counted in characters, not bytes.
package validation

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/imgbox/internal/common"
)

const (
	NameMin     = 2
	NameMax     = 255
	EmailMin    = 6
	EmailMax    = 255
	PasswordMin = 8
	PasswordMax = 255
)

// ValidationError names the first field that failed and why.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return common.ErrorValidation
}

// ValidateRegistration checks name, email and password in that order and
// returns a *ValidationError for the first violation.
func ValidateRegistration(name, email, password string) error {
	if err := checkLength("name", name, NameMin, NameMax); err != nil {
		return err
	}
	if err := checkLength("email", email, EmailMin, EmailMax); err != nil {
		return err
	}
	if err := checkEmail(email); err != nil {
		return err
	}
	return checkLength("password", password, PasswordMin, PasswordMax)
}

func checkLength(field, value string, min, max int) error {
	if !utf8.ValidString(value) || strings.ContainsRune(value, 0) {
		return &ValidationError{Field: field, Reason: "must be valid UTF-8 text without NUL characters"}
	}
	n := utf8.RuneCountInString(value)
	if n < min || n > max {
		return &ValidationError{
			Field:  field,
			Reason: fmt.Sprintf("must be between %d and %d characters", min, max),
		}
	}
	return nil
}

// NormalizeEmail returns the form of email used for storage and uniqueness:
// surrounding space trimmed and lower-cased.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// checkEmail accepts a bare address only; display names are rejected.
func checkEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return &ValidationError{Field: "email", Reason: "must be a valid email address"}
	}
	return nil
}
