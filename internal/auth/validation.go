package auth

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/MrJusticeShai/odd-handyman-api/internal/apperr"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" || len(email) > 254 {
		return apperr.InvalidArgument("invalid email format")
	}
	if !emailRegex.MatchString(email) {
		return apperr.InvalidArgument("invalid email format")
	}
	return nil
}

func ValidatePassword(password string) error {
	if len(password) < 8 || len(password) > 128 {
		return apperr.InvalidArgument("password must be between 8 and 128 characters")
	}

	hasLetter := false
	hasDigit := false
	for _, r := range password {
		if unicode.IsLetter(r) {
			hasLetter = true
		}
		if unicode.IsDigit(r) {
			hasDigit = true
		}
		if hasLetter && hasDigit {
			break
		}
	}
	if !hasLetter || !hasDigit {
		return apperr.InvalidArgument("password must contain at least one letter and one digit")
	}
	return nil
}

func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if len(name) == 0 || len(name) > 100 {
		return apperr.InvalidArgument("name must be between 1 and 100 characters")
	}

	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != ' ' && r != '-' && r != '_' {
			return apperr.InvalidArgument("name contains invalid characters")
		}
	}
	return nil
}

// SanitizeString trims the value and strips control characters.
func SanitizeString(s string) string {
	s = strings.TrimSpace(s)
	var builder strings.Builder
	for _, r := range s {
		if r >= 32 && r != 127 {
			builder.WriteRune(r)
		}
	}
	return builder.String()
}
