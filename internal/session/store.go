package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store defaults
const (
	// DefaultTTL is how long an idle session survives before eviction.
	DefaultTTL = 2 * time.Hour
	// DefaultCleanupInterval is how often idle sessions are swept.
	DefaultCleanupInterval = 10 * time.Minute
)

// Store keeps live sessions keyed by ID and evicts idle ones in the
// background so abandoned browser sessions do not pin their uploads forever.
type Store struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
	ttl      time.Duration

	cleanupTicker *time.Ticker
	cleanupStop   chan struct{}
}

// NewStore creates a session store. Non-positive ttl or cleanupInterval
// select the defaults; the cleanup goroutine starts immediately.
func NewStore(ttl, cleanupInterval time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if cleanupInterval <= 0 {
		cleanupInterval = DefaultCleanupInterval
	}

	store := &Store{
		sessions:      make(map[uuid.UUID]*Session),
		ttl:           ttl,
		cleanupTicker: time.NewTicker(cleanupInterval),
		cleanupStop:   make(chan struct{}),
	}
	go store.cleanup()

	return store
}

// Create registers and returns a fresh session.
func (s *Store) Create() *Session {
	sess := New()

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	return sess
}

// Get returns the session with the given ID, if it is still live.
func (s *Store) Get(id uuid.UUID) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	return sess, ok
}

// Remove drops a session from the store.
func (s *Store) Remove(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Stop stops the cleanup goroutine.
func (s *Store) Stop() {
	s.cleanupTicker.Stop()
	close(s.cleanupStop)
}

// cleanup sweeps idle sessions until the store is stopped.
func (s *Store) cleanup() {
	for {
		select {
		case <-s.cleanupTicker.C:
			s.evictIdle()
		case <-s.cleanupStop:
			return
		}
	}
}

// evictIdle removes sessions whose last use is older than the TTL. Sessions
// with a run in flight are skipped and picked up on a later sweep.
func (s *Store) evictIdle() {
	cutoff := time.Now().Add(-s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	for id, sess := range s.sessions {
		if sess.Busy() {
			continue
		}
		if sess.LastUsed().Before(cutoff) {
			delete(s.sessions, id)
		}
	}
}
