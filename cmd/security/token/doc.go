// Package token provides the session-token primitive for Atrium.
//
// Session tokens are random UUIDv4 strings: 122 bits of entropy from
// crypto/rand, rendered in the canonical 36-character form. The token is the
// session's identity in storage and in the cookie, so it must be unguessable
// and must only ever be compared by exact match.
package token
