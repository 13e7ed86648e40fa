// Package password provides credential hashing and verification for Atrium.
//
// Stored representations use a salted SHA-256 scheme encoded as
// "<salt_hex>:<digest_hex>": a fresh 16-byte random salt per hash, digest
// computed over salt || UTF-8(plaintext), both halves lowercase hex.
//
// Security notes:
//   - Stored representations are treated as untrusted input during Verify;
//     malformed input is a verification failure, never a panic or an error.
//   - Digest comparison is constant time.
package password
