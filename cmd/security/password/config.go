package password

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Params controls the hashing primitive.
// SaltLength is in bytes; the digest is always SHA-256 (32 bytes).
type Params struct {
	SaltLength int
}

// Policy controls plaintext validation applied before a credential is stored.
type Policy struct {
	MinLength int
	MaxLength int
}

// Config is the single configuration surface for this package.
type Config struct {
	Params Params
	Policy Policy
}

// DefaultConfig returns the baseline configuration: 16-byte salts and a
// 6-character minimum password length.
func DefaultConfig() Config {
	return Config{
		Params: Params{SaltLength: 16},
		Policy: Policy{
			MinLength: 6,
			MaxLength: 256,
		},
	}
}

// FromEnv loads config from environment variables.
//
// Env surface:
// - ATRIUM_PASSWORD_MIN_LEN
// - ATRIUM_PASSWORD_MAX_LEN
// - ATRIUM_PASSWORD_SALT_BYTES
func FromEnv() (Config, error) {
	cfg := DefaultConfig()

	if v, ok := os.LookupEnv("ATRIUM_PASSWORD_MIN_LEN"); ok {
		n, err := atoiBounded(v, 1, 1024)
		if err != nil {
			return Config{}, fmt.Errorf("ATRIUM_PASSWORD_MIN_LEN: %w", err)
		}
		cfg.Policy.MinLength = n
	}

	if v, ok := os.LookupEnv("ATRIUM_PASSWORD_MAX_LEN"); ok {
		n, err := atoiBounded(v, 1, 4096)
		if err != nil {
			return Config{}, fmt.Errorf("ATRIUM_PASSWORD_MAX_LEN: %w", err)
		}
		cfg.Policy.MaxLength = n
	}

	if v, ok := os.LookupEnv("ATRIUM_PASSWORD_SALT_BYTES"); ok {
		n, err := atoiBounded(v, 8, 64)
		if err != nil {
			return Config{}, fmt.Errorf("ATRIUM_PASSWORD_SALT_BYTES: %w", err)
		}
		cfg.Params.SaltLength = n
	}

	if cfg.Policy.MinLength > cfg.Policy.MaxLength {
		return Config{}, fmt.Errorf("%w: min length exceeds max length", ErrConfig)
	}

	return cfg, nil
}

// Validate checks a plaintext password against the policy.
// It is intentionally separate from Hash: the hashing primitive is total over
// any string input, while policy enforcement belongs to registration flows.
func (c Config) Validate(password string) error {
	if len(password) < c.Policy.MinLength {
		return ErrPasswordTooShort
	}
	if c.Policy.MaxLength > 0 && len(password) > c.Policy.MaxLength {
		return ErrPasswordTooLong
	}
	return nil
}

func atoiBounded(v string, min, max int) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrConfig, err)
	}
	if n < min || n > max {
		return 0, fmt.Errorf("%w: value %d outside [%d, %d]", ErrConfig, n, min, max)
	}
	return n, nil
}
