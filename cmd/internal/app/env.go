package app

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Environment lookups behind LoadConfig. A variable that is unset, blank or
// fails to parse falls back to its default; startup never aborts over a bad
// value.

func envValue(key string) (string, bool) {
	v := strings.TrimSpace(os.Getenv(key))
	return v, v != ""
}

// EnvString returns the trimmed value of key, or def when unset.
func EnvString(key, def string) string {
	if v, ok := envValue(key); ok {
		return v
	}
	return def
}

// EnvBool parses key with strconv.ParseBool semantics ("1", "t", "true", ...).
func EnvBool(key string, def bool) bool {
	v, ok := envValue(key)
	if !ok {
		return def
	}
	if b, err := strconv.ParseBool(v); err == nil {
		return b
	}
	return def
}

// EnvInt parses key as a base-10 integer. Zero and negatives count as
// misconfiguration and yield def.
func EnvInt(key string, def int) int {
	v, ok := envValue(key)
	if !ok {
		return def
	}
	if n, err := strconv.Atoi(v); err == nil && n > 0 {
		return n
	}
	return def
}

// EnvInt32 is EnvInt for the int32 knobs pgxpool exposes (pool sizing).
// Unlike EnvInt it accepts zero, so a bound can be switched off explicitly.
func EnvInt32(key string, def int32) int32 {
	v, ok := envValue(key)
	if !ok {
		return def
	}
	if n, err := strconv.ParseInt(v, 10, 32); err == nil && n >= 0 {
		return int32(n)
	}
	return def
}

// EnvDuration parses key as a Go duration string ("250ms", "15s", "2h").
func EnvDuration(key string, def time.Duration) time.Duration {
	v, ok := envValue(key)
	if !ok {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d
	}
	return def
}
