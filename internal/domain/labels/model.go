// Package labels holds the device label records and the store that owns their order.
package labels

import "time"

// IdentifierLength is the digit count of a device identifier (IMEI-style).
const IdentifierLength = 15

// Record associates a device identifier with its printed serial.
// Records are values: they are created by Service.Add and never mutated.
type Record struct {
	// Identifier is the 15-digit device identifier encoded in the barcode.
	Identifier string

	// PrefixCode is the 2-3 digit operator batch code embedded in the serial.
	PrefixCode string

	// Serial is the 7-character code printed above the barcode.
	Serial string

	// CreatedAt is informational only.
	CreatedAt time.Time
}
