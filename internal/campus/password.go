package campus

import (
	"strings"
	"unicode/utf8"
)

const (
	minPasswordLength = 8
	specialChars      = `!@#$%^&*(),.?":{}|<>`
)

// ValidatePassword returns the first rule the password breaks, or "" when it
// is acceptable. Rules are checked in a fixed order.
func ValidatePassword(password string) string {
	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(specialChars, r):
			special = true
		}
	}

	switch {
	case utf8.RuneCountInString(password) < minPasswordLength:
		return "Password must be at least 8 characters long."
	case !upper:
		return "Password must contain at least one uppercase letter (A-Z)."
	case !lower:
		return "Password must contain at least one lowercase letter (a-z)."
	case !digit:
		return "Password must contain at least one number (0-9)."
	case !special:
		return "Password must contain at least one special character (!@#$%^&*)."
	}
	return ""
}
