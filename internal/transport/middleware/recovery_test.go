package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRecovery_PassesThroughWithoutPanic(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	var served bool
	wrapped := Recovery(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		served = true
		w.WriteHeader(http.StatusCreated)
	}))

	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/products", nil))

	if !served {
		t.Fatal("expected the wrapped handler to run")
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected status %d, got %d", http.StatusCreated, rec.Code)
	}
}

func TestRecovery_PanicBecomes500(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	wrapped := Recovery(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("price computation blew up")
	}))

	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, rec.Code)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != "internal server error" {
		t.Errorf("expected a generic body, got %q", body)
	}

	logged := buf.String()
	if !strings.Contains(logged, "panic recovered") {
		t.Errorf("expected log to record the panic, got %q", logged)
	}
	if !strings.Contains(logged, "price computation blew up") {
		t.Errorf("expected log to carry the panic value, got %q", logged)
	}
	if !strings.Contains(logged, "/products") {
		t.Errorf("expected log to name the path, got %q", logged)
	}
}
