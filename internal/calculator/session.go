package calculator

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"go-chi-calculator/internal/engine"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionLimit    = errors.New("session limit reached")
	ErrNoCommands      = errors.New("no commands provided")
)

// Session owns one engine. Commands against a session run one at a time.
type Session struct {
	ID string

	mu       sync.Mutex
	eng      *engine.Engine
	lastUsed time.Time
}

func (s *Session) run(now time.Time, fn func(e *engine.Engine)) engine.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastUsed = now
	fn(s.eng)
	return s.eng.Snapshot()
}

func (s *Session) idleSince(cutoff time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed.Before(cutoff)
}

// Store keeps sessions in memory. A limit of zero means unlimited.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	limit    int
	now      func() time.Time
}

func NewStore(limit int) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		limit:    limit,
		now:      time.Now,
	}
}

// Create starts a session with a cleared engine.
func (s *Store) Create() (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.limit > 0 && len(s.sessions) >= s.limit {
		return nil, ErrSessionLimit
	}

	sess := &Session{
		ID:       uuid.NewString(),
		eng:      engine.New(),
		lastUsed: s.now(),
	}
	s.sessions[sess.ID] = sess
	return sess, nil
}

func (s *Store) Get(id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, id)
	return nil
}

// Sweep drops sessions unused for longer than idle and returns their IDs.
func (s *Store) Sweep(idle time.Duration) []string {
	cutoff := s.now().Add(-idle)

	s.mu.Lock()
	defer s.mu.Unlock()

	var removed []string
	for id, sess := range s.sessions {
		if sess.idleSince(cutoff) {
			delete(s.sessions, id)
			removed = append(removed, id)
		}
	}
	return removed
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
