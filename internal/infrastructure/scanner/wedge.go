// Package scanner provides barcode capture backends.
package scanner

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"sync"

	"labelkit/internal/domain/scan"
)

// WedgeName is the name of the keyboard-wedge backend.
const WedgeName = "wedge"

// Wedge reads decoded payloads, one per line, from a keyboard-wedge or
// serial barcode reader exposed as a character device.
type Wedge struct {
	path string
	open func() (io.ReadCloser, error)
}

var _ scan.Backend = (*Wedge)(nil)

// NewWedge creates a backend for the device at path.
func NewWedge(path string) *Wedge {
	return &Wedge{
		path: path,
		open: func() (io.ReadCloser, error) { return os.Open(path) },
	}
}

// NewWedgeReader creates a backend over an already open stream such as
// stdin. Closing the capture closes r.
func NewWedgeReader(r io.ReadCloser) *Wedge {
	return &Wedge{
		path: "-",
		open: func() (io.ReadCloser, error) { return r, nil },
	}
}

func (w *Wedge) Name() string { return WedgeName }

// Available reports whether the device exists.
func (w *Wedge) Available() bool {
	if w.path == "" {
		return false
	}
	if w.path == "-" {
		return true
	}
	_, err := os.Stat(w.path)
	return err == nil
}

// Open starts reading lines in the background.
func (w *Wedge) Open(ctx context.Context) (scan.Capture, error) {
	if w.path == "" {
		return nil, errors.New("wedge device not configured")
	}
	rc, err := w.open()
	if err != nil {
		return nil, err
	}

	c := &wedgeCapture{
		rc:    rc,
		lines: make(chan string, 16),
		done:  make(chan struct{}),
	}
	go c.read()
	return c, nil
}

type wedgeCapture struct {
	rc    io.ReadCloser
	lines chan string
	done  chan struct{}

	mu      sync.Mutex
	readErr error

	closeOnce sync.Once
	closeErr  error
}

func (c *wedgeCapture) read() {
	defer close(c.lines)

	sc := bufio.NewScanner(c.rc)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		select {
		case c.lines <- line:
		case <-c.done:
			return
		}
	}

	err := sc.Err()
	if err == nil {
		err = io.EOF
	}
	c.mu.Lock()
	c.readErr = err
	c.mu.Unlock()
}

// Poll returns a buffered line if one is ready.
func (c *wedgeCapture) Poll(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	select {
	case line, ok := <-c.lines:
		if !ok {
			c.mu.Lock()
			defer c.mu.Unlock()
			return "", c.readErr
		}
		return line, nil
	default:
		return "", nil
	}
}

// Close stops the reader and closes the stream.
func (c *wedgeCapture) Close() error {
	c.closeOnce.Do(func() {
		close(c.done)
		c.closeErr = c.rc.Close()
	})
	return c.closeErr
}
