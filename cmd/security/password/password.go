package password

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"
)

// Hash hashes a password with a fresh random salt and returns the stored
// representation.
// Format:
// <salt_hex>:<digest_hex>
//
// Two calls with the same password return different representations because
// the salt is regenerated every time. The only failure mode is the entropy
// source.
func (c Config) Hash(password string) (string, error) {
	saltLen := c.Params.SaltLength
	if saltLen <= 0 {
		saltLen = DefaultConfig().Params.SaltLength
	}

	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("salt: %w", err)
	}

	sum := digest(salt, password)

	return hex.EncodeToString(salt) + ":" + hex.EncodeToString(sum[:]), nil
}

// Verify checks whether password matches the stored representation.
//
// Malformed input (missing colon, invalid hex, wrong digest size) is reported
// as a mismatch rather than a distinct error, so storage-format details never
// leak to callers. The digest comparison is constant time.
func (c Config) Verify(stored, password string) bool {
	salt, want, ok := decode(stored)
	if !ok {
		return false
	}

	got := digest(salt, password)

	return subtle.ConstantTimeCompare(got[:], want) == 1
}

func digest(salt []byte, password string) [sha256.Size]byte {
	buf := make([]byte, 0, len(salt)+len(password))
	buf = append(buf, salt...)
	buf = append(buf, password...)
	return sha256.Sum256(buf)
}

// decode parses "<salt_hex>:<digest_hex>" and returns salt and expected digest.
// The split is on the first colon; a second colon ends up inside the digest
// half and fails hex decoding.
func decode(stored string) (salt, want []byte, ok bool) {
	saltHex, digestHex, found := strings.Cut(stored, ":")
	if !found || saltHex == "" || digestHex == "" {
		return nil, nil, false
	}

	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return nil, nil, false
	}
	want, err = hex.DecodeString(digestHex)
	if err != nil {
		return nil, nil, false
	}
	if len(want) != sha256.Size {
		return nil, nil, false
	}

	return salt, want, true
}
