package handler

import (
	"net/http"
	"runtime"
	"time"

	"tamapet-data-api/internal/database"
	"tamapet-data-api/internal/model"
	"tamapet-data-api/pkg/response"
)

// StartTime tracks when the server started for uptime calculation
var StartTime = time.Now()

// HealthHandler exposes liveness/readiness probes backed by the
// connection manager.
type HealthHandler struct {
	mgr     *database.Manager
	version string
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(mgr *database.Manager, version string) *HealthHandler {
	return &HealthHandler{mgr: mgr, version: version}
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status    string       `json:"status"`
	Timestamp time.Time    `json:"timestamp"`
	Version   string       `json:"version"`
	Backends  model.Health `json:"backends"`
}

// Health handles GET /api/v1/health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	backends := h.mgr.HealthCheck(r.Context())

	status := "healthy"
	if !backends.OK() {
		status = "degraded"
	}

	response.OK(w, HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC(),
		Version:   h.version,
		Backends:  backends,
	})
}

// ReadyResponse represents the readiness check response.
type ReadyResponse struct {
	Ready     bool         `json:"ready"`
	Timestamp time.Time    `json:"timestamp"`
	Backends  model.Health `json:"backends"`
}

// Ready handles GET /api/v1/ready. The store gates readiness; the
// cache is best-effort and does not.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	backends := h.mgr.HealthCheck(r.Context())

	if !backends.OK() {
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	response.OK(w, ReadyResponse{
		Ready:     backends.OK(),
		Timestamp: time.Now().UTC(),
		Backends:  backends,
	})
}

// StatusResponse represents the unified status response for bot monitoring
type StatusResponse struct {
	Service       string  `json:"service"`
	Status        string  `json:"status"`
	Timestamp     string  `json:"timestamp"`
	UptimeSeconds int64   `json:"uptime_seconds"`
	MemoryMB      float64 `json:"memory_mb"`
}

// Status handles GET /api/status - unified health check for bot monitoring
func (h *HealthHandler) Status(w http.ResponseWriter, r *http.Request) {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	memoryMB := float64(memStats.Alloc) / 1024 / 1024

	resp := StatusResponse{
		Service:       "tamapet-data-api",
		Status:        "ok",
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		UptimeSeconds: int64(time.Since(StartTime).Seconds()),
		MemoryMB:      float64(int(memoryMB*100)) / 100,
	}

	w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate")
	response.OK(w, resp)
}
