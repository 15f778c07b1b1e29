package scan

import (
	"context"
	"errors"
	"sync"
	"time"

	"labelkit/internal/core/apperror"
	"labelkit/internal/core/id"
	"labelkit/internal/domain/labels"
	"labelkit/pkg/logger"
)

// DefaultInterval is the polling period between capture attempts.
const DefaultInterval = 100 * time.Millisecond

// ErrStopped is returned by Wait when the session ended without a result.
var ErrStopped = errors.New("scan stopped")

// Status is the lifecycle state of a session.
type Status string

const (
	StatusRunning Status = "running"
	StatusDecoded Status = "decoded"
	StatusStopped Status = "stopped"
	StatusFailed  Status = "failed"
)

// Options configures a session.
type Options struct {
	// Interval between polls. Defaults to DefaultInterval.
	Interval time.Duration

	// Timeout stops the session automatically. Zero means no limit.
	Timeout time.Duration

	// Logger defaults to logger.Default().
	Logger *logger.Logger
}

// Session is a running capture loop.
type Session struct {
	id       id.ID
	backend  string
	capture  Capture
	interval time.Duration
	log      *logger.Logger
	started  time.Time

	cancel    context.CancelFunc
	done      chan struct{}
	closeOnce sync.Once

	mu         sync.Mutex
	status     Status
	identifier string
	err        error
	finished   time.Time
}

// Start opens the backend and polls it in the background until a valid
// identifier is decoded, ctx is done, the timeout elapses, or Stop is called.
// The capture is closed exactly once in every case.
func Start(ctx context.Context, backend Backend, opts Options) (*Session, error) {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Logger == nil {
		opts.Logger = logger.Default()
	}

	capture, err := backend.Open(ctx)
	if err != nil {
		return nil, apperror.NewCaptureFailure(backend.Name(), err)
	}

	var runCtx context.Context
	var cancel context.CancelFunc
	if opts.Timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, opts.Timeout)
	} else {
		runCtx, cancel = context.WithCancel(ctx)
	}

	sid := id.New()
	s := &Session{
		id:       sid,
		backend:  backend.Name(),
		capture:  capture,
		interval: opts.Interval,
		log:      opts.Logger.WithComponent("scan").With("session_id", sid.String(), "backend", backend.Name()),
		started:  time.Now(),
		cancel:   cancel,
		done:     make(chan struct{}),
		status:   StatusRunning,
	}

	s.log.WithContext(ctx).Info("scan started")
	go s.run(runCtx)
	return s, nil
}

// ID returns the session id.
func (s *Session) ID() id.ID { return s.id }

// Backend returns the name of the backend in use.
func (s *Session) Backend() string { return s.backend }

// StartedAt returns when the session started.
func (s *Session) StartedAt() time.Time { return s.started }

// Done is closed once the loop has exited and the capture is released.
func (s *Session) Done() <-chan struct{} { return s.done }

// Status reports the current state and, once decoded, the identifier.
func (s *Session) Status() (Status, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status, s.identifier, s.err
}

// Stop cancels the loop and waits for the capture to be released.
// Safe to call any number of times, from any goroutine.
func (s *Session) Stop() {
	s.cancel()
	<-s.done
}

// Wait blocks until the session ends or ctx is done and returns the
// decoded identifier. A stopped or timed-out session yields ErrStopped.
func (s *Session) Wait(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-s.done:
	}

	status, identifier, err := s.Status()
	switch status {
	case StatusDecoded:
		return identifier, nil
	case StatusFailed:
		return "", err
	default:
		return "", ErrStopped
	}
}

func (s *Session) run(ctx context.Context) {
	defer close(s.done)
	defer s.release()
	defer s.cancel()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		raw, err := s.capture.Poll(ctx)
		if err != nil {
			if ctx.Err() != nil {
				s.finish(StatusStopped, "", nil)
				return
			}
			s.finish(StatusFailed, "", apperror.NewCaptureFailure(s.backend, err))
			return
		}

		if raw != "" {
			identifier, err := labels.ParseIdentifier(raw)
			if err == nil {
				s.finish(StatusDecoded, identifier, nil)
				return
			}
			s.log.Debugw("ignoring decoded payload", "raw", raw, "normalized", labels.Normalize(raw))
		}

		select {
		case <-ctx.Done():
			s.finish(StatusStopped, "", nil)
			return
		case <-ticker.C:
		}
	}
}

func (s *Session) finish(status Status, identifier string, err error) {
	s.mu.Lock()
	s.status = status
	s.identifier = identifier
	s.err = err
	s.finished = time.Now()
	s.mu.Unlock()

	switch status {
	case StatusDecoded:
		s.log.Infow("scan decoded", "identifier", identifier)
	case StatusFailed:
		s.log.Warnw("scan failed", "error", err)
	default:
		s.log.Info("scan stopped")
	}
}

func (s *Session) release() {
	s.closeOnce.Do(func() {
		if err := s.capture.Close(); err != nil {
			s.log.Warnw("failed to release capture", "error", err)
		}
	})
}

func (s *Session) finishedAt() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finished, s.status != StatusRunning
}
