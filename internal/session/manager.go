package session

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/san-kum/pengviz/internal/dataset"
)

// DefaultTTL is how long an idle session survives.
const DefaultTTL = 30 * time.Minute

type entry struct {
	sess     *Session
	lastSeen time.Time
}

// Manager hands out one Session per client id. All sessions share the
// manager's Dataset.
type Manager struct {
	ds       *dataset.Dataset
	defaults Inputs
	ttl      time.Duration
	opts     []Option
	logger   *zap.Logger
	now      func() time.Time

	mu       sync.Mutex
	sessions map[string]*entry
}

// NewManager returns a manager creating sessions from defaults. A ttl of
// zero selects DefaultTTL. opts apply to every session created.
func NewManager(ds *dataset.Dataset, defaults Inputs, ttl time.Duration, opts ...Option) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	o := buildOptions(opts)
	return &Manager{
		ds:       ds,
		defaults: defaults,
		ttl:      ttl,
		opts:     opts,
		logger:   o.logger,
		now:      time.Now,
		sessions: make(map[string]*entry),
	}
}

// Create starts a session with a fresh id.
func (m *Manager) Create() *Session {
	sess := New(m.ds, m.defaults, m.opts...)
	m.mu.Lock()
	m.sessions[sess.ID()] = &entry{sess: sess, lastSeen: m.now()}
	n := len(m.sessions)
	m.mu.Unlock()
	m.logger.Info("session created", zap.String("session", sess.ID()), zap.Int("live", n))
	return sess
}

// Get returns the live session with id and marks it as used.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	e.lastSeen = m.now()
	return e.sess, nil
}

// GetOrCreate returns the session with id, or a new one if id is unknown
// or expired. created reports which happened.
func (m *Manager) GetOrCreate(id string) (sess *Session, created bool) {
	if id != "" {
		if s, err := m.Get(id); err == nil {
			return s, false
		}
	}
	return m.Create(), true
}

// Delete closes and forgets the session with id.
func (m *Manager) Delete(id string) {
	m.mu.Lock()
	e, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if ok {
		e.sess.Close()
	}
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// IDs lists the live session ids in sorted order.
func (m *Manager) IDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Sweep closes sessions idle for longer than the ttl and returns how many
// were removed. A session with an open subscription counts as in use.
func (m *Manager) Sweep() int {
	now := m.now()
	cutoff := now.Add(-m.ttl)
	var expired []*Session

	m.mu.Lock()
	for id, e := range m.sessions {
		if e.sess.Subscribers() > 0 {
			e.lastSeen = now
			continue
		}
		if e.lastSeen.Before(cutoff) {
			expired = append(expired, e.sess)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range expired {
		s.Close()
		m.logger.Info("session expired", zap.String("session", s.ID()))
	}
	return len(expired)
}

// Run sweeps every interval until ctx is done, then closes every session.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			m.CloseAll()
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}

func (m *Manager) CloseAll() {
	m.mu.Lock()
	all := m.sessions
	m.sessions = make(map[string]*entry)
	m.mu.Unlock()
	for _, e := range all {
		e.sess.Close()
	}
}
