package identity

import (
	"context"
	"time"
)

// User is Atrium's canonical account record.
//
// Email is stored and matched exactly as given (case-sensitive); uniqueness
// is enforced by the store. PasswordHash holds the salted credential
// representation and is nil for pre-provisioned accounts without a usable
// password. It must never be returned to clients.
type User struct {
	ID    string
	Name  *string
	Email string

	PasswordHash *string

	CreatedAt time.Time
}

// CreateUserInput describes a user insert.
// Email is required; PasswordHash is the already-hashed representation.
type CreateUserInput struct {
	Name         *string
	Email        string
	PasswordHash *string
	Now          time.Time
}

// Store is the user persistence boundary.
//
// Uniqueness of email is the store's responsibility: a concurrent duplicate
// insert must fail with a ConflictError, which makes the store the
// authoritative guard against the check-then-insert race in registration.
type Store interface {
	// FindByEmail returns the user with exactly this email, or ErrNotFound.
	FindByEmail(ctx context.Context, email string) (User, error)

	// FindByID returns the user with this ID, or ErrNotFound.
	FindByID(ctx context.Context, id string) (User, error)

	// Insert creates a new user and returns it with its assigned ID.
	// Returns a ConflictError when the email is already taken.
	Insert(ctx context.Context, in CreateUserInput) (User, error)

	// List returns all users ordered by creation time.
	List(ctx context.Context) ([]User, error)
}
