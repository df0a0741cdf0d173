// Package redact masks sensitive values before they reach logs or audit
// records. Phone numbers and API keys keep only their trailing characters.
package redact

import (
	"regexp"
	"strings"
)

var phonePattern = regexp.MustCompile(`\+\d{7,15}`)

// PhoneNumber hides all but the last four digits of a phone number.
func PhoneNumber(number string) string {
	if len(number) <= 4 {
		return strings.Repeat("*", len(number))
	}
	return strings.Repeat("x", len(number)-4) + number[len(number)-4:]
}

// APIKey hides all but the last four characters of an API key.
func APIKey(key string) string {
	if len(key) < 4 {
		return "****"
	}
	return strings.Repeat("x", len(key)-4) + key[len(key)-4:]
}

// PhoneNumbersIn masks every international-format phone number found in
// free text, leaving the rest of the text intact.
func PhoneNumbersIn(text string) string {
	return phonePattern.ReplaceAllStringFunc(text, PhoneNumber)
}

// Args returns a copy of a tool argument map with sensitive values masked.
// Keys containing "phone" or "number" are treated as phone numbers and keys
// containing "key" as credentials; everything else passes through.
func Args(args map[string]string) map[string]string {
	masked := make(map[string]string, len(args))
	for k, v := range args {
		lower := strings.ToLower(k)
		switch {
		case strings.Contains(lower, "phone") || strings.Contains(lower, "number"):
			masked[k] = PhoneNumber(v)
		case strings.Contains(lower, "key"):
			masked[k] = APIKey(v)
		default:
			masked[k] = v
		}
	}
	return masked
}
