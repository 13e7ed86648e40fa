package identity

import (
	"context"
	"sort"
	"sync"
	"time"
)

// InMemoryStore is the fallback user store when no database is configured.
// It enforces the same email-uniqueness contract as the Postgres store, so
// the auth flows behave identically in both modes.
type InMemoryStore struct {
	mu      sync.Mutex
	byID    map[string]User
	byEmail map[string]string // email -> user ID, exact match
}

// NewInMemoryStore constructs an in-memory Store implementation.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		byID:    make(map[string]User),
		byEmail: make(map[string]string),
	}
}

// FindByEmail returns the user with exactly this email.
func (s *InMemoryStore) FindByEmail(ctx context.Context, email string) (User, error) {
	const op = "identity.FindByEmail"

	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	if email == "" {
		return User{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "empty email"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byEmail[email]
	if !ok {
		return User{}, NotFoundError{Op: op, Resource: "user"}
	}
	return s.byID[id], nil
}

// FindByID returns the user with this ID.
func (s *InMemoryStore) FindByID(ctx context.Context, id string) (User, error) {
	const op = "identity.FindByID"

	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	if id == "" {
		return User{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "empty id"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.byID[id]
	if !ok {
		return User{}, NotFoundError{Op: op, Resource: "user"}
	}
	return u, nil
}

// Insert creates a new user. The uniqueness check and the insert happen under
// one lock, mirroring the constraint-level guarantee of the Postgres store.
func (s *InMemoryStore) Insert(ctx context.Context, in CreateUserInput) (User, error) {
	const op = "identity.Insert"

	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	if in.Email == "" {
		return User{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "email is required"}
	}

	now := in.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	id, err := NewULID(now)
	if err != nil {
		return User{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[in.Email]; exists {
		return User{}, ConflictError{Op: op, Field: "email"}
	}

	u := User{
		ID:           id,
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: in.PasswordHash,
		CreatedAt:    now,
	}
	s.byID[id] = u
	s.byEmail[in.Email] = id

	return u, nil
}

// List returns all users ordered by ID (creation time for ULIDs).
func (s *InMemoryStore) List(ctx context.Context) ([]User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]User, 0, len(s.byID))
	for _, u := range s.byID {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}
