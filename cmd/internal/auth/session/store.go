package session

import (
	"context"
	"time"
)

// Session mirrors the atrium.sessions row.
//
// Token is the client-held identity of the session; it is unique across all
// rows and only ever matched exactly. ExpiresAt is strictly after CreatedAt.
type Session struct {
	ID        string
	UserID    string
	Token     string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Store abstracts persistence for session state.
type Store interface {
	// Insert persists a new session row.
	// Returns ErrTokenConflict when the token is already taken.
	Insert(ctx context.Context, s Session) error

	// GetByToken loads a session by exact token match.
	// Returns ErrSessionNotFound when no row matches. It does NOT check
	// expiry; that is the resolver's policy.
	GetByToken(ctx context.Context, token string) (Session, error)

	// DeleteByToken removes the session with this token.
	// Deleting an absent token is a no-op, keeping logout idempotent.
	DeleteByToken(ctx context.Context, token string) error
}
