package validation

import (
	"regexp"
	"strings"
	"unicode"
)

// Validation rule limits
var (
	// Email validation pattern
	EmailPattern = `^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,4}$`

	// Password min length
	PasswordMinLength = 8

	// Name validation min/max length
	NameMinLength = 2
	NameMaxLength = 100

	// Post bounds
	PostTitleMaxLength   = 200
	PostContentMaxLength = 2000
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	Email *regexp.Regexp
}{
	Email: regexp.MustCompile(EmailPattern),
}

// IsValidEmail reports whether the email matches the expected format.
func IsValidEmail(email string) bool {
	return CompiledPatterns.Email.MatchString(strings.ToLower(strings.TrimSpace(email)))
}

// IsValidPassword reports whether the password meets the minimum requirements:
// at least PasswordMinLength characters, containing a letter and a digit.
func IsValidPassword(password string) bool {
	if len(password) < PasswordMinLength {
		return false
	}
	hasLetter, hasDigit := false, false
	for _, r := range password {
		if unicode.IsLetter(r) {
			hasLetter = true
		}
		if unicode.IsDigit(r) {
			hasDigit = true
		}
	}
	return hasLetter && hasDigit
}

// TrimmedNonEmpty trims surrounding whitespace and reports whether anything remains.
func TrimmedNonEmpty(s string) (string, bool) {
	trimmed := strings.TrimSpace(s)
	return trimmed, trimmed != ""
}

// WithinLength reports whether s is at most max characters long.
// Length is counted in runes so multi-byte input is not penalized.
func WithinLength(s string, max int) bool {
	return len([]rune(s)) <= max
}
