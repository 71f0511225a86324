package api

import (
	"net/http"

	"github.com/byronwade/rebuzzle/internal/logger"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.DB.HealthCheck(r.Context()); err != nil {
		logger.FromContext(r.Context()).Error("health check failed: %v", err)
		respondJSON(w, r, http.StatusServiceUnavailable, map[string]any{
			"status": "unhealthy",
		})
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"status": "ok"})
}
