package token

import (
	"strings"

	"github.com/google/uuid"
)

// canonicalLen is the length of a canonical UUID string.
const canonicalLen = 36

// New returns a new session token.
// The only failure mode is the entropy source.
func New() (string, error) {
	u, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

// IsWellFormed reports whether s is a canonical session token.
//
// It accepts exactly the form New produces: lowercase, hyphenated, 36 chars.
// Variant encodings (braced, URN, uppercase) are rejected so that store
// lookups stay strict exact-match and no token has two spellings.
func IsWellFormed(s string) bool {
	if len(s) != canonicalLen {
		return false
	}
	if s != strings.ToLower(s) {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}
