// Package password validates password strength.
package password

import (
	"errors"
	"regexp"

	passwordvalidator "github.com/wagslane/go-password-validator"
)

const (
	minimumLength      = 10
	minimumEntropyBits = 60
)

var (
	uppercaseRe = regexp.MustCompile(`[A-Z]`)
	lowercaseRe = regexp.MustCompile(`[a-z]`)
	digitRe     = regexp.MustCompile(`[0-9]`)
)

var (
	ErrTooShort    = errors.New("password must be at least 10 characters")
	ErrNoUppercase = errors.New("password must contain an uppercase letter")
	ErrNoLowercase = errors.New("password must contain a lowercase letter")
	ErrNoDigit     = errors.New("password must contain a digit")
)

// Validate checks a password against the length, character class
// and entropy requirements.
func Validate(password string) error {
	if len(password) < minimumLength {
		return ErrTooShort
	}
	if !uppercaseRe.MatchString(password) {
		return ErrNoUppercase
	}
	if !lowercaseRe.MatchString(password) {
		return ErrNoLowercase
	}
	if !digitRe.MatchString(password) {
		return ErrNoDigit
	}
	return passwordvalidator.Validate(password, minimumEntropyBits)
}
