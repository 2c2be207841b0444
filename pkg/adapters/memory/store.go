package memory

import (
	"context"
	"sync"
	"time"

	"github.com/aretw0/errand/pkg/domain"
)

type entry struct {
	session *domain.Session
	expires time.Time // zero means never
}

// Store implements ports.SessionStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]entry
	mu   sync.RWMutex

	ttl time.Duration
	now func() time.Time
}

type Option func(*Store)

// WithTTL expires sessions ttl after their last save, like the Redis store.
// Zero keeps sessions until they are deleted.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore creates a new in-memory store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		data: make(map[string]entry),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (e entry) expired(now time.Time) bool {
	return !e.expires.IsZero() && !now.Before(e.expires)
}

// Save persists the session in memory and drops expired ones.
func (s *Store) Save(ctx context.Context, session *domain.Session) error {
	// Copy so later mutations by the caller don't leak into the store
	copied := session.Snapshot()

	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.prune(now)

	e := entry{session: copied}
	if s.ttl > 0 {
		e.expires = now.Add(s.ttl)
	}
	s.data[session.ID] = e
	return nil
}

// prune requires s.mu held for writing.
func (s *Store) prune(now time.Time) {
	for id, e := range s.data {
		if e.expired(now) {
			delete(s.data, id)
		}
	}
}

// Load retrieves the session from memory.
func (s *Store) Load(ctx context.Context, sessionID string) (*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.data[sessionID]
	if !ok || e.expired(s.now()) {
		return nil, domain.ErrSessionNotFound
	}

	return e.session.Snapshot(), nil
}

// Delete removes the session.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, sessionID)
	return nil
}

// List returns the IDs of sessions that have not expired.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prune(s.now())

	sessions := make([]string, 0, len(s.data))
	for id := range s.data {
		sessions = append(sessions, id)
	}
	return sessions, nil
}

// Len reports how many sessions are held, expired ones included.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
