package session

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements Store using PostgreSQL (atrium.sessions).
// The pool is owned by the caller.
type PostgresStore struct {
	pool   *pgxpool.Pool
	schema string
}

// PostgresOption configures the store.
type PostgresOption func(*PostgresStore) error

var pgIdentRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// WithSchema sets the Postgres schema used by the session store (default "atrium").
func WithSchema(schema string) PostgresOption {
	return func(s *PostgresStore) error {
		schema = strings.TrimSpace(schema)
		if schema == "" || !pgIdentRe.MatchString(schema) {
			return fmt.Errorf("session: invalid schema identifier")
		}
		s.schema = schema
		return nil
	}
}

// NewPostgresStore creates a Postgres-backed session store.
func NewPostgresStore(pool *pgxpool.Pool, opts ...PostgresOption) (*PostgresStore, error) {
	st := &PostgresStore{pool: pool, schema: "atrium"}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(st); err != nil {
			return nil, err
		}
	}
	if st.pool == nil {
		return nil, fmt.Errorf("session: nil pool")
	}
	return st, nil
}

// Insert persists a new session row.
func (s *PostgresStore) Insert(ctx context.Context, sess Session) error {
	sessions := pgx.Identifier{s.schema, "sessions"}.Sanitize()

	_, err := s.pool.Exec(ctx, `
		INSERT INTO `+sessions+` (id, user_id, token, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5)
	`, sess.ID, sess.UserID, sess.Token, sess.CreatedAt, sess.ExpiresAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return ErrTokenConflict
		}
		return err
	}

	return nil
}

// GetByToken loads a session row by exact token match.
func (s *PostgresStore) GetByToken(ctx context.Context, token string) (Session, error) {
	sessions := pgx.Identifier{s.schema, "sessions"}.Sanitize()

	var row Session
	err := s.pool.QueryRow(ctx, `
		SELECT id, user_id, token, created_at, expires_at
		FROM `+sessions+`
		WHERE token = $1
	`, token).Scan(&row.ID, &row.UserID, &row.Token, &row.CreatedAt, &row.ExpiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Session{}, ErrSessionNotFound
	}
	if err != nil {
		return Session{}, err
	}

	return row, nil
}

// DeleteByToken removes a session row (idempotent).
func (s *PostgresStore) DeleteByToken(ctx context.Context, token string) error {
	sessions := pgx.Identifier{s.schema, "sessions"}.Sanitize()

	_, err := s.pool.Exec(ctx, `
		DELETE FROM `+sessions+`
		WHERE token = $1
	`, token)
	return err
}
