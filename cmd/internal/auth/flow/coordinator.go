package flow

import (
	"context"
	"errors"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"atrium/cmd/identity"
	"atrium/cmd/internal/auth/session"
	"atrium/cmd/security/password"
)

// User is the public projection of an account. It never carries the
// credential hash.
type User struct {
	ID        string
	Email     string
	Name      *string
	CreatedAt time.Time
}

// RegisterInput carries the fields of a registration request.
type RegisterInput struct {
	Name     *string
	Email    string
	Password string
}

// LoginInput carries the fields of a login request.
type LoginInput struct {
	Email    string
	Password string
}

// Result pairs the acted-on user with the freshly issued session.
type Result struct {
	User    User
	Session session.Session
}

// Coordinator implements the account flows on top of the identity store,
// the password config and the session service.
type Coordinator struct {
	log       *slog.Logger
	users     identity.Store
	sessions  *session.Service
	passwords password.Config
}

// NewCoordinator wires a coordinator. log may be nil.
func NewCoordinator(log *slog.Logger, users identity.Store, sessions *session.Service, passwords password.Config) (*Coordinator, error) {
	if users == nil {
		return nil, errors.New("flow: nil identity store")
	}
	if sessions == nil {
		return nil, errors.New("flow: nil session service")
	}
	if log == nil {
		log = slog.Default()
	}
	return &Coordinator{
		log:       log,
		users:     users,
		sessions:  sessions,
		passwords: passwords,
	}, nil
}

// Register creates an account and logs it in.
//
// Emails are matched exactly as given; "A@x.com" and "a@x.com" are distinct
// accounts. A duplicate email reports ErrConflict with the message
// "User already exists".
func (c *Coordinator) Register(ctx context.Context, now time.Time, in RegisterInput) (Result, error) {
	const op = "flow.register"

	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		return Result{}, OpError{Op: op, Kind: ErrValidation, Msg: "name is required"}
	}
	if err := validateEmail(op, in.Email); err != nil {
		return Result{}, err
	}
	if in.Password == "" {
		return Result{}, OpError{Op: op, Kind: ErrValidation, Msg: "password is required"}
	}
	if err := c.passwords.Validate(in.Password); err != nil {
		return Result{}, OpError{Op: op, Kind: ErrValidation, Msg: err.Error()}
	}

	// Pre-check gives the common duplicate case a clean answer; the unique
	// constraint still backstops concurrent registrations.
	_, err := c.users.FindByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return Result{}, OpError{Op: op, Kind: ErrConflict, Msg: "User already exists"}
	case identity.IsNotFound(err):
		// continue
	default:
		return Result{}, c.persist(op, "find user", err)
	}

	hash, err := c.passwords.Hash(in.Password)
	if err != nil {
		return Result{}, c.persist(op, "hash password", err)
	}

	u, err := c.users.Insert(ctx, identity.CreateUserInput{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: &hash,
		Now:          now,
	})
	if identity.IsConflict(err) {
		return Result{}, OpError{Op: op, Kind: ErrConflict, Msg: "User already exists"}
	}
	if err != nil {
		return Result{}, c.persist(op, "insert user", err)
	}

	sess, err := c.sessions.Issue(ctx, now, u.ID)
	if err != nil {
		return Result{}, c.persist(op, "issue session", err)
	}

	return Result{User: publicUser(u), Session: sess}, nil
}

// Login verifies credentials and issues a new session. Each login gets its
// own session; existing sessions stay valid.
func (c *Coordinator) Login(ctx context.Context, now time.Time, in LoginInput) (Result, error) {
	const op = "flow.login"

	if in.Email == "" {
		return Result{}, OpError{Op: op, Kind: ErrValidation, Msg: "email is required"}
	}
	if in.Password == "" {
		return Result{}, OpError{Op: op, Kind: ErrValidation, Msg: "password is required"}
	}

	u, err := c.users.FindByEmail(ctx, in.Email)
	if identity.IsNotFound(err) {
		return Result{}, OpError{Op: op, Kind: ErrNotFound, Msg: "User not found"}
	}
	if err != nil {
		return Result{}, c.persist(op, "find user", err)
	}

	if u.PasswordHash == nil || !c.passwords.Verify(*u.PasswordHash, in.Password) {
		return Result{}, OpError{Op: op, Kind: ErrBadCredentials, Msg: "Invalid credentials"}
	}

	sess, err := c.sessions.Issue(ctx, now, u.ID)
	if err != nil {
		return Result{}, c.persist(op, "issue session", err)
	}

	return Result{User: publicUser(u), Session: sess}, nil
}

// Me resolves a session token to its user.
//
// Anonymous callers are not an error: a missing, malformed, unknown or
// expired token, and a session whose user has since vanished, all yield
// (nil, nil).
func (c *Coordinator) Me(ctx context.Context, tok string, now time.Time) (*User, error) {
	const op = "flow.me"

	if tok == "" {
		return nil, nil
	}

	sess, err := c.sessions.Resolve(ctx, tok, now)
	if errors.Is(err, session.ErrSessionNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, c.persist(op, "resolve session", err)
	}

	u, err := c.users.FindByID(ctx, sess.UserID)
	if identity.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, c.persist(op, "find user", err)
	}

	pu := publicUser(u)
	return &pu, nil
}

// RequireUser is Me for endpoints that demand an authenticated caller.
// It reports ErrUnauthorized instead of a nil user.
func (c *Coordinator) RequireUser(ctx context.Context, tok string, now time.Time) (User, error) {
	const op = "flow.require_user"

	u, err := c.Me(ctx, tok, now)
	if err != nil {
		return User{}, err
	}
	if u == nil {
		return User{}, OpError{Op: op, Kind: ErrUnauthorized, Msg: "Unauthorized"}
	}
	return *u, nil
}

// Logout revokes the session holding tok. Logging out without a session, or
// twice with the same token, succeeds.
func (c *Coordinator) Logout(ctx context.Context, tok string) error {
	const op = "flow.logout"

	if tok == "" {
		return nil
	}
	if err := c.sessions.Delete(ctx, tok); err != nil {
		return c.persist(op, "delete session", err)
	}
	return nil
}

// ListUsers returns all accounts as public projections, ordered by ID.
func (c *Coordinator) ListUsers(ctx context.Context) ([]User, error) {
	const op = "flow.list_users"

	rows, err := c.users.List(ctx)
	if err != nil {
		return nil, c.persist(op, "list users", err)
	}

	out := make([]User, 0, len(rows))
	for _, u := range rows {
		out = append(out, publicUser(u))
	}
	return out, nil
}

// persist logs the underlying storage error and returns the generic
// persistence kind; callers never see storage detail.
func (c *Coordinator) persist(op, what string, err error) error {
	c.log.Error("storage failure", "op", op, "what", what, "error", err)
	return OpError{Op: op, Kind: ErrPersistence, Msg: "storage failure"}
}

func publicUser(u identity.User) User {
	return User{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: u.CreatedAt,
	}
}

func validateEmail(op, email string) error {
	if email == "" {
		return OpError{Op: op, Kind: ErrValidation, Msg: "email is required"}
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return OpError{Op: op, Kind: ErrValidation, Msg: "invalid email"}
	}
	return nil
}
