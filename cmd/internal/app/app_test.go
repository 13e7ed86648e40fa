package app

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNew_InMemoryMode(t *testing.T) {
	a, err := New(Config{}, discardLogger())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if a.dbEnabled {
		t.Fatal("empty DatabaseURL must select the in-memory stores")
	}
	if a.auth == nil {
		t.Fatal("auth handler must be wired in memory mode")
	}
	if err := a.store.Close(t.Context()); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestRegisterHTTP_Health(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	registerHTTP(mux, discardLogger(), Config{}, nil, false, NewMetrics(), nil)

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rr.Code != http.StatusOK || rr.Body.String() != "ok\n" {
		t.Fatalf("healthz: %d %q", rr.Code, rr.Body.String())
	}

	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("readyz: %d", rr.Code)
	}
}

func TestRegisterHTTP_ReadinessRequiresDB(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	registerHTTP(mux, discardLogger(), Config{ReadinessRequireDB: true}, nil, false, nil, nil)

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("readyz without db: %d", rr.Code)
	}
}

func TestRegisterHTTP_Metrics(t *testing.T) {
	t.Parallel()

	metrics := NewMetrics()
	metrics.Observe(http.MethodGet, "/healthz", http.StatusOK, 0)

	mux := http.NewServeMux()
	registerHTTP(mux, discardLogger(), Config{}, nil, false, metrics, nil)

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("metrics: %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "atrium_http_requests_total") {
		t.Fatalf("metrics body missing counter:\n%s", rr.Body.String())
	}
}
