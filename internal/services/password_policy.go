package services

import (
	"fmt"
	"unicode"
)

// ValidatePasswordStrength requires at least eight characters mixing
// upper case, lower case and digits.
func ValidatePasswordStrength(password string) error {
	if len([]rune(password)) < 8 {
		return fmt.Errorf("%w: password too short", ErrInvalidInput)
	}

	hasUpper := false
	hasLower := false
	hasDigit := false
	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsDigit(char):
			hasDigit = true
		}
	}

	if hasUpper && hasLower && hasDigit {
		return nil
	}
	return fmt.Errorf("%w: password needs upper case, lower case and a digit", ErrInvalidInput)
}
