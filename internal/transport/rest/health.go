package rest

import (
	"context"
	"net/http"
	"time"
)

const pingTimeout = 3 * time.Second

type dbPinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves the liveness, readiness and full health probes.
type HealthHandler struct {
	db      dbPinger
	version string
}

func NewHealthHandler(db dbPinger, version string) *HealthHandler {
	return &HealthHandler{db: db, version: version}
}

// HealthResponse is the probe payload. Version and Components appear only on
// the full health check.
type HealthResponse struct {
	Status     string                `json:"status"`
	Version    string                `json:"version,omitempty"`
	Components map[string]CompStatus `json:"components,omitempty"`
	Timestamp  time.Time             `json:"timestamp"`
}

// CompStatus reports one dependency.
type CompStatus struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
}

// Live answers 200 as long as the process serves requests.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
	})
}

// Ready answers 200 when the database responds to a ping, 503 otherwise.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
	defer cancel()

	status, code := "ok", http.StatusOK
	if err := h.db.Ping(ctx); err != nil {
		status, code = "down", http.StatusServiceUnavailable
	}
	writeJSON(w, code, HealthResponse{
		Status:    status,
		Timestamp: time.Now(),
	})
}

// Health reports the build version and per-dependency status with ping
// latency. Any component down turns the whole response 503.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
	defer cancel()

	resp := HealthResponse{
		Status:     "ok",
		Version:    h.version,
		Components: make(map[string]CompStatus),
		Timestamp:  time.Now(),
	}
	code := http.StatusOK

	start := time.Now()
	if err := h.db.Ping(ctx); err != nil {
		resp.Components["database"] = CompStatus{Status: "down"}
		resp.Status = "down"
		code = http.StatusServiceUnavailable
	} else {
		resp.Components["database"] = CompStatus{
			Status:  "ok",
			Latency: time.Since(start).String(),
		}
	}

	writeJSON(w, code, resp)
}
