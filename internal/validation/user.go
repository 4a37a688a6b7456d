// Package validation provides input validation helpers for user-supplied data.
package validation

import (
	"errors"
	"regexp"
	"strings"
	"unicode"
)

var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_.-]{3,30}$`)

// emailRe is a pragmatic format check, not a full RFC 5322 parser.
var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ValidateUsername checks username format requirements.
func ValidateUsername(username string) error {
	if !usernameRe.MatchString(username) {
		return errors.New("username must be 3-30 characters using letters, numbers, '_', '.' or '-'")
	}
	return nil
}

// ValidateEmail checks that the given string looks like an email address.
func ValidateEmail(email string) error {
	if !emailRe.MatchString(email) {
		return errors.New("invalid email address provided")
	}
	return nil
}

// ValidatePassword enforces minimum password strength: at least 8 characters
// containing both a letter and a digit.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return errors.New("password must be at least 8 characters long")
	}

	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return errors.New("password must contain at least one letter and one digit")
	}
	return nil
}

// SanitizeText trims surrounding whitespace and collapses control characters
// out of free-form text fields.
func SanitizeText(s string) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(cleaned)
}
