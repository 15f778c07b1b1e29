// Package numerator provides domain contracts for label serial generation.
package numerator

import "labelkit/internal/core/apperror"

const (
	// DefaultHeader opens every serial.
	DefaultHeader = "13"
	// DefaultLength is the total serial length: header + prefix + random filler.
	DefaultLength = 7

	minPrefixLen = 2
	maxPrefixLen = 3
)

// Config holds serial layout configuration.
type Config struct {
	// Header is the fixed leading text of every serial.
	Header string

	// Length is the total serial length. The random filler absorbs whatever
	// the header and prefix leave over.
	Length int
}

// DefaultConfig returns the printed-label serial layout ("13" + prefix + filler, 7 chars).
func DefaultConfig() Config {
	return Config{
		Header: DefaultHeader,
		Length: DefaultLength,
	}
}

// FillerLength returns how many random digits follow a prefix of the given length.
func (c Config) FillerLength(prefixLen int) int {
	return c.Length - len(c.Header) - prefixLen
}

// ValidatePrefix accepts 2 or 3 ASCII digits.
func ValidatePrefix(prefix string) error {
	if len(prefix) < minPrefixLen || len(prefix) > maxPrefixLen {
		return apperror.NewInvalidPrefix(prefix)
	}
	for i := 0; i < len(prefix); i++ {
		if prefix[i] < '0' || prefix[i] > '9' {
			return apperror.NewInvalidPrefix(prefix)
		}
	}
	return nil
}
