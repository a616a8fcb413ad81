package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/paz-dev-com/catalog-backend/internal/config"
)

func corsConfig(origins string, credentials bool) config.CORSConfig {
	return config.CORSConfig{
		AllowedOrigins:   origins,
		AllowedMethods:   "GET,POST,PUT,DELETE,OPTIONS",
		AllowedHeaders:   "Authorization,Content-Type",
		AllowCredentials: credentials,
		MaxAge:           3600,
	}
}

func serveCORS(cfg config.CORSConfig, method, origin string) (*httptest.ResponseRecorder, bool) {
	var reachedHandler bool
	wrapped := CORS(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reachedHandler = true
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(method, "/api/v1/products", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)
	return rec, reachedHandler
}

func TestCORS_PreflightShortCircuits(t *testing.T) {
	cfg := corsConfig("https://shop.example.com", true)

	rec, reachedHandler := serveCORS(cfg, http.MethodOptions, "https://shop.example.com")

	if reachedHandler {
		t.Error("preflight must not reach the handler")
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}

	want := map[string]string{
		"Access-Control-Allow-Origin":      "https://shop.example.com",
		"Access-Control-Allow-Methods":     "GET,POST,PUT,DELETE,OPTIONS",
		"Access-Control-Allow-Headers":     "Authorization,Content-Type",
		"Access-Control-Allow-Credentials": "true",
		"Access-Control-Max-Age":           "3600",
	}
	for header, value := range want {
		if got := rec.Header().Get(header); got != value {
			t.Errorf("%s = %q, want %q", header, got, value)
		}
	}
}

func TestCORS_KnownOriginEchoed(t *testing.T) {
	cfg := corsConfig("https://shop.example.com, https://admin.example.com", true)

	rec, reachedHandler := serveCORS(cfg, http.MethodGet, "https://admin.example.com")

	if !reachedHandler {
		t.Fatal("expected the request to reach the handler")
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://admin.example.com" {
		t.Errorf("expected the origin echoed back, got %q", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
		t.Errorf("expected credentials allowed, got %q", got)
	}
}

func TestCORS_UnknownOriginGetsNoHeaders(t *testing.T) {
	cfg := corsConfig("https://shop.example.com", true)

	rec, reachedHandler := serveCORS(cfg, http.MethodGet, "https://evil.example.com")

	// The request still serves; the browser enforces the missing header.
	if !reachedHandler {
		t.Fatal("expected the request to reach the handler")
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("expected no allow-origin header, got %q", got)
	}
}

func TestCORS_WildcardWithoutCredentials(t *testing.T) {
	cfg := corsConfig("*", false)

	rec, _ := serveCORS(cfg, http.MethodGet, "https://anywhere.example.com")

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://anywhere.example.com" {
		t.Errorf("expected wildcard to echo the origin, got %q", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Credentials"); got != "" {
		t.Errorf("expected no credentials header, got %q", got)
	}
}
