package api

import (
	"net/http"
	"time"

	"github.com/afterglow3292/portops/internal/api/respond"
)

// HealthReporter is the view of aggregated service health the API exposes.
type HealthReporter interface {
	IsHealthy() bool
	Down() []string
}

// HealthHandler reports process liveness and dependency health.
type HealthHandler struct {
	rep HealthReporter
}

func NewHealthHandler(rep HealthReporter) *HealthHandler {
	return &HealthHandler{rep: rep}
}

// CheckHealth GET /api/health
// Always returns 200; the body reports healthy/unhealthy and names any
// dependencies that failed their last probe.
func (h *HealthHandler) CheckHealth(w http.ResponseWriter, r *http.Request) {
	body := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	if h.rep != nil && !h.rep.IsHealthy() {
		body["status"] = "unhealthy"
		body["down"] = h.rep.Down()
	}
	respond.WriteJSON(w, http.StatusOK, body)
}
