package session

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"atrium/cmd/identity/ids"
	"atrium/cmd/security/token"
)

// Integration tests are opt-in and require ATRIUM_DATABASE_URL.
// In non-CI runs, unreachable Postgres skips these tests to keep local runs fast.

func TestPostgresStore_InsertAndGet(t *testing.T) {
	t.Parallel()

	pool := mustOpenSessionTestPool(t)
	defer pool.Close()

	schema := mustCreateSessionTestSchema(t, pool)
	t.Cleanup(func() { mustDropSessionSchema(t, pool, schema) })
	mustApplySessionSchema(t, pool, schema)

	s := mustNewSessionStore(t, pool, schema)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Microsecond)
	sess := mustSession(t, now)

	if err := s.Insert(ctx, sess); err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, err := s.GetByToken(ctx, sess.Token)
	if err != nil {
		t.Fatalf("get by token: %v", err)
	}
	if got.ID != sess.ID || got.UserID != sess.UserID {
		t.Fatalf("row mismatch: %+v vs %+v", got, sess)
	}
	if !got.ExpiresAt.Equal(sess.ExpiresAt) {
		t.Fatalf("expiry not round-tripped: %v vs %v", got.ExpiresAt, sess.ExpiresAt)
	}

	if _, err := s.GetByToken(ctx, "6ba7b810-9dad-11d1-80b4-00c04fd430c8"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound for unknown token, got %v", err)
	}
}

func TestPostgresStore_Insert_TokenConflict(t *testing.T) {
	t.Parallel()

	pool := mustOpenSessionTestPool(t)
	defer pool.Close()

	schema := mustCreateSessionTestSchema(t, pool)
	t.Cleanup(func() { mustDropSessionSchema(t, pool, schema) })
	mustApplySessionSchema(t, pool, schema)

	s := mustNewSessionStore(t, pool, schema)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Microsecond)
	first := mustSession(t, now)
	if err := s.Insert(ctx, first); err != nil {
		t.Fatalf("insert 1: %v", err)
	}

	second := mustSession(t, now)
	second.Token = first.Token
	if err := s.Insert(ctx, second); !errors.Is(err, ErrTokenConflict) {
		t.Fatalf("expected ErrTokenConflict, got %v", err)
	}
}

func TestPostgresStore_DeleteByToken(t *testing.T) {
	t.Parallel()

	pool := mustOpenSessionTestPool(t)
	defer pool.Close()

	schema := mustCreateSessionTestSchema(t, pool)
	t.Cleanup(func() { mustDropSessionSchema(t, pool, schema) })
	mustApplySessionSchema(t, pool, schema)

	s := mustNewSessionStore(t, pool, schema)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Microsecond)
	sess := mustSession(t, now)
	if err := s.Insert(ctx, sess); err != nil {
		t.Fatalf("insert: %v", err)
	}

	if err := s.DeleteByToken(ctx, sess.Token); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.GetByToken(ctx, sess.Token); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound after delete, got %v", err)
	}

	// Deleting again is a no-op.
	if err := s.DeleteByToken(ctx, sess.Token); err != nil {
		t.Fatalf("second delete: %v", err)
	}
}

// ---- helpers ----

func mustSession(t *testing.T, now time.Time) Session {
	t.Helper()

	id, err := ids.NewULID(now)
	if err != nil {
		t.Fatalf("ulid: %v", err)
	}
	userID, err := ids.NewULID(now)
	if err != nil {
		t.Fatalf("ulid: %v", err)
	}
	tok, err := token.New()
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	return Session{
		ID:        id,
		UserID:    userID,
		Token:     tok,
		CreatedAt: now,
		ExpiresAt: now.Add(time.Hour),
	}
}

func mustNewSessionStore(t *testing.T, pool *pgxpool.Pool, schema string) *PostgresStore {
	t.Helper()
	s, err := NewPostgresStore(pool, WithSchema(schema))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return s
}

func mustOpenSessionTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	raw := strings.TrimSpace(os.Getenv("ATRIUM_DATABASE_URL"))
	if raw == "" {
		t.Skip("integration test skipped: ATRIUM_DATABASE_URL is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 12*time.Second)
	defer cancel()

	cfg, err := pgxpool.ParseConfig(raw)
	if err != nil {
		t.Fatalf("parse ATRIUM_DATABASE_URL: %v", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		t.Fatalf("connect postgres: %v", err)
	}

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer pingCancel()

	c, err := pool.Acquire(pingCtx)
	if err != nil {
		pool.Close()
		if shouldSkipSessionIntegration(err) {
			t.Skipf("integration test skipped: Postgres unreachable (ATRIUM_DATABASE_URL set): %v", err)
		}
		t.Fatalf("acquire: %v", err)
	}
	c.Release()

	return pool
}

func mustCreateSessionTestSchema(t *testing.T, pool *pgxpool.Pool) string {
	t.Helper()

	id, err := ids.NewULID(time.Now().UTC())
	if err != nil {
		t.Fatalf("ulid: %v", err)
	}
	schema := "atrium_it_" + strings.ToLower(id)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := pool.Exec(ctx, `CREATE SCHEMA `+pgx.Identifier{schema}.Sanitize()); err != nil {
		t.Fatalf("create schema: %v", err)
	}
	return schema
}

func mustDropSessionSchema(t *testing.T, pool *pgxpool.Pool, schema string) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, _ = pool.Exec(ctx, `DROP SCHEMA IF EXISTS `+pgx.Identifier{schema}.Sanitize()+` CASCADE`)
}

func mustApplySessionSchema(t *testing.T, pool *pgxpool.Pool, schema string) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	sessions := pgx.Identifier{schema, "sessions"}.Sanitize()

	schemaSQL := fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  token TEXT NOT NULL,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  expires_at TIMESTAMPTZ NOT NULL,

  CONSTRAINT chk_sessions_id_ulid_len CHECK (char_length(id) = 26),
  CONSTRAINT uq_sessions_token UNIQUE (token),
  CONSTRAINT chk_sessions_expiry CHECK (expires_at > created_at)
);
`, sessions)

	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		t.Fatalf("apply schema: %v", err)
	}
}

func shouldSkipSessionIntegration(err error) bool {
	if err == nil {
		return false
	}
	if os.Getenv("CI") != "" {
		return false
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "context deadline exceeded") ||
		strings.Contains(msg, "timeout") ||
		strings.Contains(msg, "dial tcp") ||
		strings.Contains(msg, "no such host") {
		return true
	}
	return false
}
