package scan

import (
	"errors"

	"labelkit/internal/core/apperror"
)

var errNoBackend = errors.New("no scanner backend available")

// Select returns the first available backend in preference order.
func Select(backends ...Backend) (Backend, error) {
	names := make([]string, 0, len(backends))
	for _, b := range backends {
		if b == nil {
			continue
		}
		if b.Available() {
			return b, nil
		}
		names = append(names, b.Name())
	}
	return nil, apperror.NewCaptureFailure("none", errNoBackend).WithDetail("tried", names)
}
