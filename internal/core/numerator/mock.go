package numerator

// MockGenerator is a test implementation of Generator.
// Use in unit tests that need predictable serials.
type MockGenerator struct {
	GenerateFunc func(prefixCode string) (string, error)
	Calls        []string
}

// Generate implements Generator.
func (m *MockGenerator) Generate(prefixCode string) (string, error) {
	m.Calls = append(m.Calls, prefixCode)
	if m.GenerateFunc != nil {
		return m.GenerateFunc(prefixCode)
	}
	if err := ValidatePrefix(prefixCode); err != nil {
		return "", err
	}
	// Default: zero filler, e.g. "1312000"
	serial := DefaultHeader + prefixCode
	for len(serial) < DefaultLength {
		serial += "0"
	}
	return serial, nil
}

// Ensure compile-time interface compliance.
var _ Generator = (*MockGenerator)(nil)
