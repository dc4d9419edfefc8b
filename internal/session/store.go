// Package session gives every web visitor a registry of their own.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/npv-calc/internal/registry"
	"go.uber.org/zap"
)

// Session pairs an id with the registry it owns.
type Session struct {
	ID string

	mu       sync.Mutex
	registry *registry.Registry
	lastSeen time.Time
}

// Do runs fn with exclusive access to the session's registry.
func (s *Session) Do(fn func(reg *registry.Registry) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.registry)
}

// Store holds live sessions and discards those idle longer than its TTL.
type Store struct {
	logger *zap.Logger
	ttl    time.Duration
	now    func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewStore creates an empty store. A ttl of zero or less keeps sessions
// until they are deleted.
func NewStore(logger *zap.Logger, ttl time.Duration) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		logger:   logger,
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// Create starts a new session with an empty registry.
func (s *Store) Create() *Session {
	sess := &Session{
		ID:       uuid.NewString(),
		registry: registry.New(),
		lastSeen: s.now(),
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	s.logger.Debug("session created",
		zap.String("op", "session.Create"),
		zap.String("session", sess.ID),
	)
	return sess
}

// Get returns a live session and marks it as used.
func (s *Store) Get(id string) (*Session, bool) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	now := s.now()
	if s.expired(sess, now) {
		delete(s.sessions, id)
		return nil, false
	}
	sess.lastSeen = now
	return sess, true
}

// GetOrCreate returns the session for id, or a new one when id is unknown
// or expired. created reports which happened.
func (s *Store) GetOrCreate(id string) (sess *Session, created bool) {
	if sess, ok := s.Get(id); ok {
		return sess, false
	}
	return s.Create(), true
}

// Delete ends a session and discards its registry.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// Sweep removes every expired session and returns how many were removed.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, sess := range s.sessions {
		if s.expired(sess, now) {
			delete(s.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		s.logger.Debug("expired sessions removed",
			zap.String("op", "session.Sweep"),
			zap.Int("removed", removed),
		)
	}
	return removed
}

// Len returns the number of sessions held, including any not yet swept.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Store) expired(sess *Session, now time.Time) bool {
	return s.ttl > 0 && now.Sub(sess.lastSeen) > s.ttl
}
