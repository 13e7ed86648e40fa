package token

import (
	"strings"
	"testing"
)

func TestNew_WellFormedAndUnique(t *testing.T) {
	seen := make(map[string]bool)
	for range 100 {
		tok, err := New()
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		if !IsWellFormed(tok) {
			t.Fatalf("token not well formed: %q", tok)
		}
		if seen[tok] {
			t.Fatalf("duplicate token: %q", tok)
		}
		seen[tok] = true
	}
}

func TestIsWellFormed_RejectsVariants(t *testing.T) {
	tok, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	cases := []string{
		"",
		"not-a-token",
		strings.ToUpper(tok),
		"{" + tok + "}",
		"urn:uuid:" + tok,
		tok + " ",
	}
	for _, s := range cases {
		if IsWellFormed(s) {
			t.Fatalf("expected %q to be rejected", s)
		}
	}
}
