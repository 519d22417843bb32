package web

import (
	"context"
	"net/http"
	"time"

	"github.com/JonMunkholm/csv2json/internal/core"
)

const healthCheckTimeout = 2 * time.Second

// HealthResponse reports service readiness.
type HealthResponse struct {
	Status  string                   `json:"status"`
	Store   string                   `json:"store"`
	Uploads core.UploadLimiterStatus `json:"uploads"`
}

// handleHealth pings the document store and reports upload slot usage.
// It returns 503 when the store is unreachable.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	resp := HealthResponse{
		Status:  "ok",
		Store:   "ok",
		Uploads: s.service.Limiter().Status(),
	}
	status := http.StatusOK

	if err := s.service.Ping(ctx); err != nil {
		resp.Status = "degraded"
		resp.Store = core.MapError(err).Message
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, r, status, resp)
}
