package core

// session.go keeps one Selection per browser session.
//
// Sessions are created on first visit and evicted after SessionTTL of
// inactivity by a sweeper goroutine (see SessionStore.Run). The store is
// also bounded: creating a session beyond the limit evicts the least
// recently used one. Each session serializes its own updates, so a burst
// of events from one tab is applied in order.

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrSessionNotFound is returned for unknown or expired session IDs.
var ErrSessionNotFound = errors.New("session not found")

// Session owns one user's selection.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu       sync.Mutex
	sel      Selection
	lastSeen time.Time
}

// Selection returns a copy of the current selection.
func (s *Session) Selection() Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sel.Clone()
}

// Update runs fn with exclusive access to the session. fn receives the
// current selection and returns the next one; on error the selection is
// left as it was.
func (s *Session) Update(fn func(Selection) (Selection, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := fn(s.sel.Clone())
	if err != nil {
		return err
	}
	s.sel = next
	s.lastSeen = time.Now()
	return nil
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// SessionConfig bounds the session store. Zero values get defaults.
type SessionConfig struct {
	TTL           time.Duration // idle time before eviction (default: 2h)
	MaxSessions   int           // live session bound (default: 10000)
	SweepInterval time.Duration // how often Run sweeps (default: TTL/4, min 1m)
}

func (c SessionConfig) withDefaults() SessionConfig {
	if c.TTL <= 0 {
		c.TTL = 2 * time.Hour
	}
	if c.MaxSessions <= 0 {
		c.MaxSessions = 10000
	}
	if c.SweepInterval <= 0 {
		c.SweepInterval = max(c.TTL/4, time.Minute)
	}
	return c
}

// SessionStore maps session IDs to sessions.
type SessionStore struct {
	cfg SessionConfig
	now func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewSessionStore creates an empty store.
func NewSessionStore(cfg SessionConfig) *SessionStore {
	return &SessionStore{
		cfg:      cfg.withDefaults(),
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// Create starts a session holding initial.
func (st *SessionStore) Create(initial Selection) *Session {
	now := st.now()
	s := &Session{
		ID:        uuid.New().String(),
		CreatedAt: now,
		sel:       initial.Clone(),
		lastSeen:  now,
	}

	st.mu.Lock()
	if len(st.sessions) >= st.cfg.MaxSessions {
		st.evictOldestLocked()
	}
	st.sessions[s.ID] = s
	n := len(st.sessions)
	st.mu.Unlock()

	sessionsLive.Set(float64(n))
	return s
}

// Get returns a live session and marks it as used.
func (st *SessionStore) Get(id string) (*Session, error) {
	st.mu.RLock()
	s, ok := st.sessions[id]
	st.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	s.touch(st.now())
	return s, nil
}

// Delete removes a session. Unknown IDs are ignored.
func (st *SessionStore) Delete(id string) {
	st.mu.Lock()
	delete(st.sessions, id)
	n := len(st.sessions)
	st.mu.Unlock()
	sessionsLive.Set(float64(n))
}

// Len returns the number of live sessions.
func (st *SessionStore) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Sweep evicts sessions idle for longer than the TTL and returns how many
// were removed.
func (st *SessionStore) Sweep() int {
	cutoff := st.now().Add(-st.cfg.TTL)

	st.mu.Lock()
	removed := 0
	for id, s := range st.sessions {
		if s.idleSince().Before(cutoff) {
			delete(st.sessions, id)
			removed++
		}
	}
	n := len(st.sessions)
	st.mu.Unlock()

	if removed > 0 {
		sessionsEvictedTotal.WithLabelValues("idle").Add(float64(removed))
	}
	sessionsLive.Set(float64(n))
	return removed
}

// Run sweeps expired sessions every SweepInterval until ctx is cancelled.
func (st *SessionStore) Run(ctx context.Context) error {
	slog.Info("session sweeper started",
		"ttl", st.cfg.TTL.String(),
		"interval", st.cfg.SweepInterval.String(),
		"max_sessions", st.cfg.MaxSessions,
	)

	ticker := time.NewTicker(st.cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("session sweeper stopped")
			return nil
		case <-ticker.C:
			if n := st.Sweep(); n > 0 {
				slog.Info("evicted idle sessions", "evicted", n, "live", st.Len())
			}
		}
	}
}

func (st *SessionStore) evictOldestLocked() {
	var (
		oldestID string
		oldest   time.Time
	)
	for id, s := range st.sessions {
		seen := s.idleSince()
		if oldestID == "" || seen.Before(oldest) {
			oldestID, oldest = id, seen
		}
	}
	if oldestID != "" {
		delete(st.sessions, oldestID)
		sessionsEvictedTotal.WithLabelValues("capacity").Inc()
	}
}
