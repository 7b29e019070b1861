package auth

import (
	"net/mail"
	"strings"
	"unicode"
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 6

// ValidatePassword checks password strength. The message explains the first
// rule that failed and is empty when the password is acceptable.
func ValidatePassword(pw string) (bool, string) {
	if len(pw) < MinPasswordLength {
		return false, "Password must be at least 6 characters long"
	}
	var lower, upper, digit bool
	for _, r := range pw {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !lower {
		return false, "Password must contain at least one lowercase letter"
	}
	if !upper {
		return false, "Password must contain at least one uppercase letter"
	}
	if !digit {
		return false, "Password must contain at least one number"
	}
	return true, ""
}

// ValidateEmail reports whether s is a bare address such as a@b.co.
func ValidateEmail(s string) bool {
	if s == "" || strings.ContainsAny(s, " <>") {
		return false
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return false
	}
	at := strings.LastIndex(s, "@")
	return at > 0 && strings.Contains(s[at+1:], ".")
}

// NormalizeEmail trims and lower-cases an address for storage and lookup.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
