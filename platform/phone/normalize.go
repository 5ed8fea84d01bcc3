// Package phone provides phone number utilities.
// This is part of the platform layer and contains no business logic.
package phone

import (
	"errors"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// CountryCode is the international dialing prefix canonical numbers carry.
const CountryCode = "996"

// nationalDigits is the length of the subscriber part after the country code.
const nationalDigits = 9

// ErrInvalidPhone is returned when the input cannot be reduced to a valid
// nine-digit national number.
var ErrInvalidPhone = errors.New("invalid phone number")

// Normalize canonicalizes a Kyrgyz phone number to the +996XXXXXXXXX form.
// Accepted shapes: "+996XXXXXXXXX", "996XXXXXXXXX", "0XXXXXXXXX" and a bare
// nine-digit subscriber number, with any punctuation or spacing in between.
// Returns ErrInvalidPhone when the stripped digits do not reduce to exactly
// nine national digits.
func Normalize(input string) (string, error) {
	digits := phonenumbers.NormalizeDigitsOnly(strings.TrimSpace(input))
	if digits == "" {
		return "", ErrInvalidPhone
	}

	switch {
	case strings.HasPrefix(digits, CountryCode) && len(digits) == len(CountryCode)+nationalDigits:
		// Already carries the country code, with or without a leading plus.
	case strings.HasPrefix(digits, "0") && len(digits) == 1+nationalDigits:
		digits = CountryCode + digits[1:]
	case len(digits) == nationalDigits:
		digits = CountryCode + digits
	default:
		return "", ErrInvalidPhone
	}

	return "+" + digits, nil
}

// IsValid reports whether the input normalizes successfully.
func IsValid(input string) bool {
	_, err := Normalize(input)
	return err == nil
}
