package scan

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"labelkit/internal/core/apperror"
	"labelkit/internal/core/id"
	"labelkit/pkg/logger"
)

// DefaultRetention is how long finished sessions stay queryable.
const DefaultRetention = 5 * time.Minute

// Manager tracks scan sessions started on behalf of remote callers.
type Manager struct {
	backends  []Backend
	opts      Options
	retention time.Duration
	log       *logger.Logger

	mu       sync.Mutex
	sessions map[id.ID]*Session
}

// NewManager creates a manager that selects among backends in the given
// preference order for every new session.
func NewManager(opts Options, backends ...Backend) *Manager {
	if opts.Logger == nil {
		opts.Logger = logger.Default()
	}
	return &Manager{
		backends:  backends,
		opts:      opts,
		retention: DefaultRetention,
		log:       opts.Logger.WithComponent("scan_manager"),
		sessions:  make(map[id.ID]*Session),
	}
}

// Backends reports each configured backend and whether it is available.
func (m *Manager) Backends() map[string]bool {
	out := make(map[string]bool, len(m.backends))
	for _, b := range m.backends {
		out[b.Name()] = b.Available()
	}
	return out
}

// Start selects a backend and starts a session detached from ctx
// cancellation, so it outlives the request that created it. Only one
// session reads the device at a time: while one is running, Start returns
// it instead of opening another.
func (m *Manager) Start(ctx context.Context) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s := m.runningLocked(); s != nil {
		m.log.Debugw("scan already running", "session_id", s.ID().String())
		return s, nil
	}

	backend, err := Select(m.backends...)
	if err != nil {
		return nil, err
	}

	s, err := Start(context.WithoutCancel(ctx), backend, m.opts)
	if err != nil {
		return nil, err
	}

	m.pruneLocked(time.Now())
	m.sessions[s.ID()] = s
	return s, nil
}

// Get returns a tracked session.
func (m *Manager) Get(sessionID id.ID) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[sessionID]
	if !ok {
		return nil, apperror.NewNotFound("scan session", sessionID.String())
	}
	return s, nil
}

// Stop stops a tracked session. Stopping a finished session is a no-op.
func (m *Manager) Stop(sessionID id.ID) (*Session, error) {
	s, err := m.Get(sessionID)
	if err != nil {
		return nil, err
	}
	s.Stop()
	return s, nil
}

// List returns tracked sessions, oldest first.
func (m *Manager) List() []*Session {
	m.mu.Lock()
	out := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s)
	}
	m.mu.Unlock()

	slices.SortFunc(out, func(a, b *Session) int {
		return strings.Compare(a.ID().String(), b.ID().String())
	})
	return out
}

// StopAll stops every session. Used on shutdown.
func (m *Manager) StopAll() {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.Unlock()

	var wg sync.WaitGroup
	for _, s := range sessions {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Stop()
		}()
	}
	wg.Wait()

	m.log.Infow("scan sessions stopped", "count", len(sessions))
}

func (m *Manager) runningLocked() *Session {
	for _, s := range m.sessions {
		if _, done := s.finishedAt(); !done {
			return s
		}
	}
	return nil
}

func (m *Manager) pruneLocked(now time.Time) {
	for sid, s := range m.sessions {
		if at, done := s.finishedAt(); done && now.Sub(at) > m.retention {
			delete(m.sessions, sid)
		}
	}
}
