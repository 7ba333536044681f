package handlers

import (
	"context"
	"net/http"
	"time"
)

const version = "1.0.0"

// HealthHandler serves the liveness and readiness endpoints.
type HealthHandler struct {
	ping func(ctx context.Context) error
	now  func() time.Time
}

// NewHealthHandler returns a HealthHandler; ping checks the database.
func NewHealthHandler(ping func(ctx context.Context) error) *HealthHandler {
	return &HealthHandler{ping: ping, now: time.Now}
}

func (h *HealthHandler) timestamp() string {
	return h.now().UTC().Format(time.RFC3339Nano)
}

// Check handles GET /health and /health/check.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"message":   "Application is running normally",
		"timestamp": h.timestamp(),
		"version":   version,
	})
}

// Live handles GET /health/live.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "alive",
		"message":   "Application is alive",
		"timestamp": h.timestamp(),
	})
}

// Ready handles GET /health/ready.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if err := h.ping(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status":    "not_ready",
			"message":   "Application is not ready to serve traffic",
			"timestamp": h.timestamp(),
			"error":     err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ready",
		"message":   "Application is ready to serve traffic",
		"timestamp": h.timestamp(),
	})
}

// Detailed handles GET /health/detailed.
func (h *HealthHandler) Detailed(w http.ResponseWriter, r *http.Request) {
	body := map[string]interface{}{
		"status":    "healthy",
		"timestamp": h.timestamp(),
		"version":   version,
	}
	checks := map[string]string{"application": "healthy", "database": "healthy"}
	status := http.StatusOK
	if err := h.ping(r.Context()); err != nil {
		checks["database"] = "unhealthy"
		body["status"] = "unhealthy"
		body["database_error"] = err.Error()
		status = http.StatusServiceUnavailable
	}
	body["checks"] = checks
	writeJSON(w, status, body)
}
