package numerator

// Generator derives a serial from an operator prefix code.
// Implementations live in pkg/numerator.
type Generator interface {
	// Generate returns header + prefix + random filler.
	// Repeated calls with the same prefix are expected to differ.
	Generate(prefixCode string) (string, error)
}
