// Package phonefmt normalizes shopper-entered phone numbers before storage.
// Numbers arrive with the country code kept in a separate field, so a value
// that repeats the dialing code (or a parenthesized trunk zero) is collapsed
// down to the bare subscriber number.
package phonefmt

import (
	"strings"
)

// Format strips whitespace and slashes from a raw phone value and removes a
// redundant leading country code. An already-clean number passes through
// unchanged.
func Format(value, countryCode string) string {
	cleaned := strings.NewReplacer(" ", "", "\t", "", "/", "", "\\", "", "-", "").Replace(strings.TrimSpace(value))

	code := strings.TrimPrefix(countryCode, "+")
	for _, prefix := range []string{"+" + code, code} {
		if code != "" && strings.HasPrefix(cleaned, prefix) {
			cleaned = strings.TrimPrefix(cleaned, prefix)
			break
		}
	}

	cleaned = strings.TrimPrefix(cleaned, "(0)")
	return cleaned
}

// IsValid reports whether a normalized number looks like a subscriber number:
// digits only, between 7 and 11 characters.
func IsValid(phone string) bool {
	if len(phone) < 7 || len(phone) > 11 {
		return false
	}
	for _, c := range phone {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
