package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrTraceInProgress = errors.New("a trace is already in progress")

// Store holds the current session. It is the only writer of session state.
type Store struct {
	mu      sync.Mutex
	current Session
}

func NewStore() *Store {
	return &Store{current: Idle()}
}

// Snapshot returns the current session.
func (s *Store) Snapshot() Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.current
}

// Start moves the store to Loading for target under a fresh generation.
// While a session is Loading, Start fails with ErrTraceInProgress unless
// supersede is set; a superseded query's result is later discarded.
func (s *Store) Start(target string, supersede bool, at time.Time) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current.Status == StatusLoading && !supersede {
		return s.current, ErrTraceInProgress
	}

	s.current = Reduce(s.current, Started{
		ID:         uuid.New(),
		Generation: s.current.Generation + 1,
		Target:     target,
		At:         at,
	})

	return s.current, nil
}

// Dispatch applies ev and reports whether it changed the session. A
// Finished event for a superseded generation is not applied.
func (s *Store) Dispatch(ev Event) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if f, ok := ev.(Finished); ok {
		if s.current.Status != StatusLoading || f.Generation != s.current.Generation {
			return s.current, false
		}
	}

	s.current = Reduce(s.current, ev)

	return s.current, true
}
