// Package scan captures a device identifier from a barcode reader.
//
// A Backend is a capture capability (a keyboard-wedge reader, a camera
// frame feed with a software decoder, ...). Select checks backends in
// preference order; a Session polls the chosen backend until the first
// payload that normalizes to a valid identifier, then releases it.
package scan

import "context"

// Backend is one way of acquiring decoded barcode payloads.
type Backend interface {
	// Name identifies the backend in logs and API responses.
	Name() string

	// Available reports whether the capability exists on this host.
	Available() bool

	// Open acquires the capture resource.
	Open(ctx context.Context) (Capture, error)
}

// Capture is an open capture resource.
type Capture interface {
	// Poll returns the next decoded raw payload, or "" when nothing was
	// decoded this turn. It must return promptly once ctx is done.
	Poll(ctx context.Context) (string, error)

	// Close releases the resource.
	Close() error
}
