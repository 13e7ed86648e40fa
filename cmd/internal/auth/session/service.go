package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"atrium/cmd/identity/ids"
	"atrium/cmd/security/token"
)

// insertAttempts bounds the token-collision retry loop in Issue. Collisions
// on 122 bits of randomness are not expected in practice.
const insertAttempts = 3

// Service issues, resolves and revokes sessions on top of a Store.
type Service struct {
	cfg   Config
	store Store
}

// NewService wires a session service.
func NewService(cfg Config, store Store) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("session: nil store")
	}
	if cfg.TTL <= 0 {
		return nil, ErrConfig
	}
	return &Service{cfg: cfg, store: store}, nil
}

// Issue creates and persists a new session for userID, valid from now until
// now plus the configured TTL. The returned session carries the token the
// client must present on subsequent requests.
func (s *Service) Issue(ctx context.Context, now time.Time, userID string) (Session, error) {
	var lastErr error

	for range insertAttempts {
		tok, err := token.New()
		if err != nil {
			return Session{}, fmt.Errorf("session: generate token: %w", err)
		}

		id, err := ids.NewULID(now)
		if err != nil {
			return Session{}, fmt.Errorf("session: generate id: %w", err)
		}

		sess := Session{
			ID:        id,
			UserID:    userID,
			Token:     tok,
			CreatedAt: now,
			ExpiresAt: now.Add(s.cfg.TTL),
		}

		err = s.store.Insert(ctx, sess)
		if err == nil {
			return sess, nil
		}
		if !errors.Is(err, ErrTokenConflict) {
			return Session{}, err
		}
		lastErr = err
	}

	return Session{}, lastErr
}

// Resolve maps a presented token to its session.
//
// Tokens that are not well formed, unknown tokens and expired sessions all
// report ErrSessionNotFound, so a caller probing tokens learns nothing about
// which case it hit.
func (s *Service) Resolve(ctx context.Context, tok string, now time.Time) (Session, error) {
	if !token.IsWellFormed(tok) {
		return Session{}, ErrSessionNotFound
	}

	sess, err := s.store.GetByToken(ctx, tok)
	if err != nil {
		return Session{}, err
	}
	if !now.Before(sess.ExpiresAt) {
		return Session{}, ErrSessionNotFound
	}

	return sess, nil
}

// Delete revokes the session holding this token. Revoking an absent or
// already-revoked token succeeds.
func (s *Service) Delete(ctx context.Context, tok string) error {
	if !token.IsWellFormed(tok) {
		return nil
	}
	return s.store.DeleteByToken(ctx, tok)
}
