package session

import "errors"

var (
	// ErrSessionNotFound is returned when a token does not resolve to a live
	// session. Expired sessions report this same error.
	ErrSessionNotFound = errors.New("session not found")

	// ErrTokenConflict is returned when a session insert loses a token
	// uniqueness race. The issuer retries a bounded number of times and then
	// surfaces it.
	ErrTokenConflict = errors.New("session token conflict")

	// ErrConfig is returned for invalid configuration.
	ErrConfig = errors.New("invalid session config")
)
