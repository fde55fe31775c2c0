// Package phone provides phone number utilities.
// This is part of the platform layer and contains no business logic.
package phone

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// DefaultRegion is used for numbers written without a country prefix.
const DefaultRegion = "BR"

// NormalizeE164 formats a phone number to E.164 and reports whether it parsed
// as a valid number. On failure it returns the trimmed input and false.
func NormalizeE164(input string) (string, bool) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return trimmed, false
	}

	number, err := phonenumbers.Parse(trimmed, DefaultRegion)
	if err != nil || !phonenumbers.IsValidNumber(number) {
		return trimmed, false
	}

	return phonenumbers.Format(number, phonenumbers.E164), true
}

// TelURI returns a tel: link for input, or "" when the number cannot be parsed.
func TelURI(input string) string {
	e164, ok := NormalizeE164(input)
	if !ok {
		return ""
	}
	return "tel:" + e164
}
