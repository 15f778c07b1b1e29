package labels

import (
	"strings"

	"labelkit/internal/core/apperror"
)

// Normalize reduces scanned or typed text to its decimal digits.
// When more than 15 digits remain the trailing 15 win: scanners and
// symbology prefixes prepend noise, never append it. Shorter results are
// returned as-is for ValidateIdentifier to reject.
func Normalize(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for i := 0; i < len(raw); i++ {
		if c := raw[i]; c >= '0' && c <= '9' {
			b.WriteByte(c)
		}
	}
	digits := b.String()
	if len(digits) > IdentifierLength {
		return digits[len(digits)-IdentifierLength:]
	}
	return digits
}

// ValidateIdentifier accepts exactly 15 ASCII digits.
func ValidateIdentifier(s string) error {
	if len(s) != IdentifierLength {
		return apperror.NewInvalidIdentifier(s)
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return apperror.NewInvalidIdentifier(s)
		}
	}
	return nil
}

// ParseIdentifier normalizes raw input and validates the result.
func ParseIdentifier(raw string) (string, error) {
	identifier := Normalize(strings.TrimSpace(raw))
	if err := ValidateIdentifier(identifier); err != nil {
		return "", err
	}
	return identifier, nil
}
