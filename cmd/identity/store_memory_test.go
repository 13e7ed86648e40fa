package identity

import (
	"context"
	"testing"
	"time"
)

func strPtr(s string) *string { return &s }

func TestInMemoryStore_InsertAndFind(t *testing.T) {
	t.Parallel()

	s := NewInMemoryStore()
	ctx := context.Background()

	hash := strPtr("aabb:ccdd")
	u, err := s.Insert(ctx, CreateUserInput{
		Name:         strPtr("Alice"),
		Email:        "a@x.com",
		PasswordHash: hash,
		Now:          time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if u.ID == "" {
		t.Fatalf("expected assigned ID")
	}

	got, err := s.FindByEmail(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("find by email: %v", err)
	}
	if got.ID != u.ID || got.Email != "a@x.com" {
		t.Fatalf("unexpected user: %+v", got)
	}

	byID, err := s.FindByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("find by id: %v", err)
	}
	if byID.Email != "a@x.com" {
		t.Fatalf("unexpected user by id: %+v", byID)
	}
}

func TestInMemoryStore_EmailConflict(t *testing.T) {
	t.Parallel()

	s := NewInMemoryStore()
	ctx := context.Background()

	if _, err := s.Insert(ctx, CreateUserInput{Email: "a@x.com"}); err != nil {
		t.Fatalf("insert 1: %v", err)
	}

	_, err := s.Insert(ctx, CreateUserInput{Email: "a@x.com"})
	if err == nil {
		t.Fatalf("expected conflict, got nil")
	}
	if !IsConflict(err) {
		t.Fatalf("expected conflict error, got: %v", err)
	}
}

func TestInMemoryStore_EmailCaseSensitive(t *testing.T) {
	t.Parallel()

	s := NewInMemoryStore()
	ctx := context.Background()

	if _, err := s.Insert(ctx, CreateUserInput{Email: "a@x.com"}); err != nil {
		t.Fatalf("insert 1: %v", err)
	}

	// Different case is a different account: email matches exactly as stored.
	if _, err := s.Insert(ctx, CreateUserInput{Email: "A@x.com"}); err != nil {
		t.Fatalf("insert 2: %v", err)
	}

	if _, err := s.FindByEmail(ctx, "A@X.COM"); !IsNotFound(err) {
		t.Fatalf("expected not found for unknown casing, got: %v", err)
	}
}

func TestInMemoryStore_FindMissing(t *testing.T) {
	t.Parallel()

	s := NewInMemoryStore()
	ctx := context.Background()

	if _, err := s.FindByEmail(ctx, "nobody@x.com"); !IsNotFound(err) {
		t.Fatalf("expected not found, got: %v", err)
	}
	if _, err := s.FindByID(ctx, "01HZZZZZZZZZZZZZZZZZZZZZZZ"); !IsNotFound(err) {
		t.Fatalf("expected not found, got: %v", err)
	}
}

func TestInMemoryStore_ListOrdered(t *testing.T) {
	t.Parallel()

	s := NewInMemoryStore()
	ctx := context.Background()

	base := time.Now().UTC()
	for i, email := range []string{"one@x.com", "two@x.com", "three@x.com"} {
		if _, err := s.Insert(ctx, CreateUserInput{
			Email: email,
			Now:   base.Add(time.Duration(i) * time.Second),
		}); err != nil {
			t.Fatalf("insert %s: %v", email, err)
		}
	}

	users, err := s.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(users) != 3 {
		t.Fatalf("expected 3 users, got %d", len(users))
	}
	// ULIDs embed the timestamp, so the ID ordering is creation order.
	if users[0].Email != "one@x.com" || users[2].Email != "three@x.com" {
		t.Fatalf("unexpected order: %v, %v, %v", users[0].Email, users[1].Email, users[2].Email)
	}
}
