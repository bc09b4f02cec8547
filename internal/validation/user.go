// Package validation provides input validation utilities
package validation

import (
	"errors"
	"regexp"
	"unicode/utf8"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateEmail checks that email is present and shaped like local@domain.tld.
func ValidateEmail(email string) error {
	if email == "" {
		return errors.New("Email is required")
	}
	if !emailPattern.MatchString(email) {
		return errors.New("Please enter a valid email address")
	}
	return nil
}

// ValidateUsername checks that username is present and at least 3 characters.
func ValidateUsername(username string) error {
	if username == "" {
		return errors.New("Username is required")
	}
	if utf8.RuneCountInString(username) < 3 {
		return errors.New("Username must be at least 3 characters long")
	}
	return nil
}

// ValidatePassword checks that password is present and at least 6 characters.
func ValidatePassword(password string) error {
	if password == "" {
		return errors.New("Password is required")
	}
	if utf8.RuneCountInString(password) < 6 {
		return errors.New("Password must be at least 6 characters long")
	}
	return nil
}

// ValidateRegistration runs email, username and password checks in that
// order and returns the first failure.
func ValidateRegistration(email, username, password string) error {
	if err := ValidateEmail(email); err != nil {
		return err
	}
	if err := ValidateUsername(username); err != nil {
		return err
	}
	return ValidatePassword(password)
}
