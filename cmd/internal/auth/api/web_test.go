package authapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newCookieTestHandler(t *testing.T) *Handler {
	t.Helper()
	return &Handler{
		cfg: Config{
			CookieName:     "session",
			CookiePath:     "/",
			CookieSecure:   true,
			CookieSameSite: http.SameSiteNoneMode,
		},
	}
}

func TestSetSessionCookie(t *testing.T) {
	t.Parallel()

	h := newCookieTestHandler(t)
	rec := httptest.NewRecorder()
	exp := time.Now().Add(7 * 24 * time.Hour).UTC()

	h.setSessionCookie(rec, "tok-123", exp)

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected 1 cookie, got %d", len(cookies))
	}
	c := cookies[0]
	if c.Name != "session" || c.Value != "tok-123" {
		t.Fatalf("cookie: %q=%q", c.Name, c.Value)
	}
	if !c.HttpOnly || !c.Secure {
		t.Fatalf("cookie must be HttpOnly and Secure: %+v", c)
	}
	if c.SameSite != http.SameSiteNoneMode {
		t.Fatalf("samesite: got %v", c.SameSite)
	}
	if c.Expires.Before(time.Now()) {
		t.Fatalf("cookie already expired: %v", c.Expires)
	}
}

func TestClearSessionCookie(t *testing.T) {
	t.Parallel()

	h := newCookieTestHandler(t)
	rec := httptest.NewRecorder()

	h.clearSessionCookie(rec)

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected 1 cookie, got %d", len(cookies))
	}
	c := cookies[0]
	if c.Value != "" || c.MaxAge != -1 {
		t.Fatalf("cookie not cleared: %+v", c)
	}
}

func TestSessionTokenFromCookie(t *testing.T) {
	t.Parallel()

	h := newCookieTestHandler(t)

	r := httptest.NewRequest(http.MethodGet, "/me", nil)
	if got := h.sessionTokenFromCookie(r); got != "" {
		t.Fatalf("expected empty token without cookie, got %q", got)
	}

	r.AddCookie(&http.Cookie{Name: "session", Value: "tok-123"})
	if got := h.sessionTokenFromCookie(r); got != "tok-123" {
		t.Fatalf("token: got %q", got)
	}
}
