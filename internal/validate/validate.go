// Package validate checks tool arguments before any provider call is made.
// Failures here are user errors, reported as plain messages; nothing in this
// package touches the network.
package validate

import (
	"fmt"
	"strconv"
	"strings"
)

// PhoneNumber checks E.164-like format: a leading "+" followed by digits only.
func PhoneNumber(number string) error {
	if !strings.HasPrefix(number, "+") {
		return fmt.Errorf("phone number must start with +")
	}
	rest := number[1:]
	if rest == "" {
		return fmt.Errorf("phone number missing digits after +")
	}
	for _, r := range rest {
		if r < '0' || r > '9' {
			return fmt.Errorf("phone number must contain only digits after +")
		}
	}
	return nil
}

// CurrencyCode checks a 3-letter ISO currency code such as KES or USD.
func CurrencyCode(code string) error {
	if len(code) != 3 {
		return fmt.Errorf("currency code must be 3 letters")
	}
	for _, r := range code {
		if (r < 'A' || r > 'Z') && (r < 'a' || r > 'z') {
			return fmt.Errorf("currency code must be alphabetic")
		}
	}
	return nil
}

// Amount checks a positive decimal amount string such as "10" or "99.50".
func Amount(amount string) error {
	v, err := strconv.ParseFloat(amount, 64)
	if err != nil {
		return fmt.Errorf("amount must be a number")
	}
	if v <= 0 {
		return fmt.Errorf("amount must be positive")
	}
	return nil
}

// AudioURL checks that a playback URL is plain HTTP or HTTPS.
func AudioURL(url string) error {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return fmt.Errorf("audio_url must be a valid HTTP/HTTPS URL")
	}
	return nil
}

// USSDCode checks the *NNN...# dial-string shape.
func USSDCode(code string) error {
	if !strings.HasPrefix(code, "*") || !strings.HasSuffix(code, "#") {
		return fmt.Errorf("ussd code must look like *123#")
	}
	if len(code) < 3 {
		return fmt.Errorf("ussd code too short")
	}
	return nil
}

// Bundle parses a data bundle like "50", "100MB" or "1GB" into a quantity
// and unit. A bare number is taken as megabytes.
func Bundle(bundle string) (quantity int, unit string, err error) {
	b := strings.ToLower(strings.TrimSpace(bundle))
	if b == "" {
		return 0, "", fmt.Errorf("bundle amount is required")
	}

	unit = "MB"
	if strings.HasSuffix(b, "gb") {
		unit = "GB"
	}
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, b)
	if digits == "" {
		return 0, "", fmt.Errorf("bundle %q has no quantity", bundle)
	}
	quantity, err = strconv.Atoi(digits)
	if err != nil {
		return 0, "", fmt.Errorf("bundle quantity %q: %w", digits, err)
	}
	if quantity <= 0 {
		return 0, "", fmt.Errorf("bundle quantity must be positive")
	}
	return quantity, unit, nil
}

// planValidity maps user-facing plan names to the provider's validity values.
var planValidity = map[string]string{
	"daily":   "Day",
	"weekly":  "Week",
	"monthly": "Month",
	"day":     "Day",
	"week":    "Week",
	"month":   "Month",
}

// Plan maps a plan duration such as "daily" to a provider validity period.
func Plan(plan string) (string, error) {
	validity, ok := planValidity[strings.ToLower(strings.TrimSpace(plan))]
	if !ok {
		return "", fmt.Errorf("invalid plan duration %q: must be daily, weekly, or monthly", plan)
	}
	return validity, nil
}
