package scan

import (
	"context"
	"errors"
	"time"

	"labelkit/pkg/logger"
)

// Station defaults.
const (
	DefaultRetryDelay = time.Second
	DefaultDebounce   = 2 * time.Second
)

// Sink receives every identifier a station decodes.
type Sink func(ctx context.Context, identifier string) error

// StationOptions configures a station.
type StationOptions struct {
	Session Options

	// RetryDelay is the pause after a capture failure.
	RetryDelay time.Duration

	// Debounce drops a repeat of the previous identifier seen within this window.
	// A camera frame written twice decodes twice.
	Debounce time.Duration
}

// Station runs scan sessions back to back and hands each decoded identifier
// to a sink. It is the unattended counterpart of a single Start/Wait.
type Station struct {
	backends []Backend
	sink     Sink
	opts     StationOptions
	log      *logger.Logger

	last   string
	lastAt time.Time
}

// NewStation creates a station over backends in preference order.
func NewStation(sink Sink, opts StationOptions, backends ...Backend) *Station {
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = DefaultRetryDelay
	}
	if opts.Debounce < 0 {
		opts.Debounce = 0
	}
	if opts.Session.Logger == nil {
		opts.Session.Logger = logger.Default()
	}
	return &Station{
		backends: backends,
		sink:     sink,
		opts:     opts,
		log:      opts.Session.Logger.WithComponent("scan_station"),
	}
}

// Run scans until ctx is done. Capture failures are retried after
// RetryDelay; sink failures are logged and scanning continues.
func (st *Station) Run(ctx context.Context) error {
	st.log.WithContext(ctx).Info("scan station started")
	defer st.log.Info("scan station stopped")

	for {
		identifier, err := st.scanOnce(ctx)
		if ctx.Err() != nil {
			return nil
		}
		if err != nil {
			st.log.Warnw("scan failed, retrying", "error", err, "retry_in", st.opts.RetryDelay)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(st.opts.RetryDelay):
			}
			continue
		}
		if identifier == "" || st.repeated(identifier) {
			continue
		}

		if err := st.sink(ctx, identifier); err != nil {
			st.log.Warnw("scanned identifier not recorded", "identifier", identifier, "error", err)
		}
	}
}

func (st *Station) scanOnce(ctx context.Context) (string, error) {
	backend, err := Select(st.backends...)
	if err != nil {
		return "", err
	}
	s, err := Start(ctx, backend, st.opts.Session)
	if err != nil {
		return "", err
	}
	defer s.Stop()

	identifier, err := s.Wait(ctx)
	if errors.Is(err, ErrStopped) {
		return "", nil
	}
	return identifier, err
}

func (st *Station) repeated(identifier string) bool {
	now := time.Now()
	if identifier == st.last && now.Sub(st.lastAt) < st.opts.Debounce {
		st.log.Debugw("ignoring repeated scan", "identifier", identifier)
		return true
	}
	st.last, st.lastAt = identifier, now
	return false
}
