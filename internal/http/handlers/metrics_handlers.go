package handlers

import (
	"context"
	"net/http"
	"time"
)

// GetCatalogStatsHandler godoc
// @Summary Catalog statistics
// @Tags metrics
// @Produce json
// @Success 200 {object} repo.CatalogStats
// @Failure 500 {string} string "Internal error"
// @Router /stats [get]
func (s *Server) GetCatalogStatsHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := s.stats.GetCatalogStats(r.Context())
	if err != nil {
		s.serverError(w, r, "failed to fetch stats", err)
		return
	}
	s.respondJSON(w, http.StatusOK, stats)
}

// HealthHandler godoc
// @Summary Liveness and database reachability
// @Tags metrics
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /healthz [get]
func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		s.respondJSON(w, http.StatusOK, HealthResponse{Status: "ok", Database: "not configured"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := s.db.PingContext(ctx); err != nil {
		s.log.WithError(err).Warn("health check: database unreachable")
		s.respondJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "degraded", Database: "unreachable"})
		return
	}
	s.respondJSON(w, http.StatusOK, HealthResponse{Status: "ok", Database: "ok"})
}
