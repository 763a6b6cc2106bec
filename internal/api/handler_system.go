package api

import (
	"context"
	"net/http"
)

// HealthChecker is anything with a liveness probe (DB, Redis).
type HealthChecker interface {
	Health(ctx context.Context) error
}

// SystemHandler handles health endpoints.
type SystemHandler struct {
	checks map[string]HealthChecker
}

// NewSystemHandler creates a SystemHandler over named dependency checks.
func NewSystemHandler(checks map[string]HealthChecker) *SystemHandler {
	return &SystemHandler{checks: checks}
}

// Health handles GET /healthz. Any failing dependency makes the service
// unhealthy.
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	code := http.StatusOK
	deps := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check.Health(r.Context()); err != nil {
			deps[name] = err.Error()
			status = "unhealthy"
			code = http.StatusServiceUnavailable
		} else {
			deps[name] = "ok"
		}
	}
	WriteJSON(w, code, map[string]any{
		"status":       status,
		"dependencies": deps,
	})
}
