package session

import (
	"context"
	"sync"
)

// InMemoryStore is the fallback session store when no database is configured.
// Token uniqueness is enforced under the same contract as the Postgres store.
type InMemoryStore struct {
	mu      sync.Mutex
	byToken map[string]Session
}

// NewInMemoryStore constructs an in-memory Store implementation.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{byToken: make(map[string]Session)}
}

// Insert persists a new session.
func (s *InMemoryStore) Insert(ctx context.Context, sess Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byToken[sess.Token]; exists {
		return ErrTokenConflict
	}
	s.byToken[sess.Token] = sess

	return nil
}

// GetByToken loads a session by exact token match.
func (s *InMemoryStore) GetByToken(ctx context.Context, token string) (Session, error) {
	if err := ctx.Err(); err != nil {
		return Session{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.byToken[token]
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	return sess, nil
}

// DeleteByToken removes a session (idempotent).
func (s *InMemoryStore) DeleteByToken(ctx context.Context, token string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.byToken, token)
	return nil
}
