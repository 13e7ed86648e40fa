package authapi

import (
	"net/http"
	"os"
	"strconv"
	"strings"
)

// Config controls auth API behavior and cookie transport defaults.
type Config struct {
	CookieName     string
	CookiePath     string
	CookieDomain   string
	CookieSecure   bool
	CookieSameSite http.SameSite

	MaxBodyBytes  int64
	MaxPhotoBytes int64
}

// LoadConfigFromEnv loads auth API config from environment variables with
// safe defaults.
//
// The session cookie defaults to HttpOnly + Secure + SameSite=None so the
// API can sit on a different origin than its frontend. SameSite=None is only
// honored by browsers over HTTPS; set ATRIUM_AUTH_COOKIE_SECURE=false and
// ATRIUM_AUTH_COOKIE_SAMESITE=lax for plain-HTTP local development.
func LoadConfigFromEnv() Config {
	cfg := Config{
		CookieName:     envString("ATRIUM_AUTH_COOKIE_NAME", "session"),
		CookiePath:     envString("ATRIUM_AUTH_COOKIE_PATH", "/"),
		CookieDomain:   envString("ATRIUM_AUTH_COOKIE_DOMAIN", ""),
		CookieSecure:   envBool("ATRIUM_AUTH_COOKIE_SECURE", true),
		CookieSameSite: envSameSite("ATRIUM_AUTH_COOKIE_SAMESITE", http.SameSiteNoneMode),
		MaxBodyBytes:   envInt64("ATRIUM_AUTH_MAX_BODY_BYTES", 1<<20),  // 1 MiB
		MaxPhotoBytes:  envInt64("ATRIUM_AUTH_MAX_PHOTO_BYTES", 5<<20), // 5 MiB
	}

	if cfg.CookieName == "" {
		cfg.CookieName = "session"
	}
	if cfg.CookiePath == "" {
		cfg.CookiePath = "/"
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 1 << 20
	}
	if cfg.MaxPhotoBytes <= 0 {
		cfg.MaxPhotoBytes = 5 << 20
	}

	return cfg
}

func envString(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func envBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func envInt64(key string, def int64) int64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func envSameSite(key string, def http.SameSite) http.SameSite {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "lax":
		return http.SameSiteLaxMode
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	case "":
		return def
	default:
		return def
	}
}
