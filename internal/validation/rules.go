package validation

import (
	"strings"
	"time"
	"unicode/utf8"
)

const (
	MinCredentialLength = 8
	MaxCredentialLength = 16

	usernameSpecials = "#$&_."
	passwordSpecials = "@$&_"
)

const (
	MsgUsernameFormat = "Username must be 8-16 characters with at least one uppercase, one lowercase, one digit, and one special character (#, $, &, _)."
	MsgPasswordFormat = "Password must be 8-16 characters with at least one uppercase, one lowercase, one digit, and one special character (@, $, &, _)."
	MsgEmailFormat    = "Please enter a valid email address."
	MsgPasswordsMatch = "Passwords do not match"
	MsgRoleRequired   = "Role must be selected."
	MsgDateFormat     = "must be a date in YYYY-MM-DD format"
	MsgDateInPast     = "cannot be in the past"
)

// IsUsername reports whether s is an acceptable username.
func IsUsername(s string) bool {
	return credentialShape(s, usernameSpecials)
}

// IsPassword reports whether s is an acceptable password.
func IsPassword(s string) bool {
	return credentialShape(s, passwordSpecials)
}

// credentialShape checks length, the allowed alphabet and that every
// character class appears at least once.
func credentialShape(s, specials string) bool {
	n := utf8.RuneCountInString(s)
	if n < MinCredentialLength || n > MaxCredentialLength {
		return false
	}

	var upper, lower, digit, special bool
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(specials, r):
			special = true
		default:
			return false
		}
	}
	return upper && lower && digit && special
}

// NotBlank reports whether s has any non-space character.
func NotBlank(s string) bool {
	return strings.TrimSpace(s) != ""
}

// ParseDate parses a YYYY-MM-DD date in loc.
func ParseDate(s string, loc *time.Location) (time.Time, bool) {
	t, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// NotBeforeDay reports whether date falls on the same calendar day as now or
// later.
func NotBeforeDay(date, now time.Time) bool {
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, date.Location())
	return !date.Before(today)
}
