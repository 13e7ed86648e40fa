package session

import (
	"errors"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.TTL != 7*24*time.Hour {
		t.Fatalf("expected 7-day TTL, got %v", cfg.TTL)
	}
}

func TestLoadConfigFromEnv_Override(t *testing.T) {
	t.Setenv("ATRIUM_SESSION_TTL", "30m")

	cfg, err := LoadConfigFromEnv()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.TTL != 30*time.Minute {
		t.Fatalf("expected 30m TTL, got %v", cfg.TTL)
	}
}

func TestLoadConfigFromEnv_Invalid(t *testing.T) {
	cases := []string{"soon", "-1h", "0s"}
	for _, v := range cases {
		t.Run(v, func(t *testing.T) {
			t.Setenv("ATRIUM_SESSION_TTL", v)

			if _, err := LoadConfigFromEnv(); !errors.Is(err, ErrConfig) {
				t.Fatalf("expected ErrConfig for %q, got %v", v, err)
			}
		})
	}
}
