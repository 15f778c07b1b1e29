// Package types provides common type aliases and utilities.
package types

import (
	"github.com/shopspring/decimal"
)

// Length is a linear page measure (millimetres by convention).
// Uses decimal.Decimal so grid arithmetic on fractional gaps stays exact
// and repeated layouts of the same sheet are bit-for-bit identical.
type Length = decimal.Decimal

// LengthFromInt creates a Length from a whole number of units.
func LengthFromInt(v int64) Length {
	return decimal.NewFromInt(v)
}

// MustLength creates a Length from a string, panics on error.
// Use only for constants.
func MustLength(s string) Length {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Float converts a Length for drawing APIs that take float64 coordinates.
func Float(l Length) float64 {
	return l.InexactFloat64()
}
