package handlers

import (
	"errors"
	"net/http"

	"github.com/rogerio-castellano/product-catalog/internal/importer"
)

const (
	defaultRunsLimit = 20
	maxRunsLimit     = 100
)

// RunImportHandler godoc
// @Summary Run the feed import now
// @Description Runs the same job as the scheduler. Only one run executes at a time.
// @Tags import
// @Produce json
// @Success 200 {object} importer.Run
// @Failure 409 {object} ErrorResponse "A run is in progress"
// @Failure 502 {object} importer.Run "The run failed"
// @Failure 503 {object} ErrorResponse "Import disabled"
// @Router /import/run [post]
func (s *Server) RunImportHandler(w http.ResponseWriter, r *http.Request) {
	if s.importer == nil {
		s.respondJSON(w, http.StatusServiceUnavailable, ErrorResponse{Error: "import is disabled"})
		return
	}

	run, err := s.importer.Run(r.Context(), importer.TriggerManual)
	switch {
	case errors.Is(err, importer.ErrImportInProgress), errors.Is(err, importer.ErrLockHeld):
		s.respondJSON(w, http.StatusConflict, ErrorResponse{Error: err.Error()})
	case err != nil:
		s.respondJSON(w, http.StatusBadGateway, run)
	default:
		s.respondJSON(w, http.StatusOK, run)
	}
}

// ImportRunsHandler godoc
// @Summary Recent import runs
// @Tags import
// @Produce json
// @Param limit query int false "How many runs, newest first" default(20)
// @Success 200 {object} ImportRunsResult
// @Failure 500 {string} string "Internal error"
// @Failure 503 {object} ErrorResponse "Import disabled"
// @Router /import/runs [get]
func (s *Server) ImportRunsHandler(w http.ResponseWriter, r *http.Request) {
	if s.importer == nil {
		s.respondJSON(w, http.StatusServiceUnavailable, ErrorResponse{Error: "import is disabled"})
		return
	}

	limit := min(max(intOrDefault(r.URL.Query().Get("limit"), defaultRunsLimit), 1), maxRunsLimit)
	runs, err := s.importer.Runs().Recent(r.Context(), limit)
	if err != nil {
		s.serverError(w, r, "could not fetch import runs", err)
		return
	}
	s.respondJSON(w, http.StatusOK, ImportRunsResult{Data: runs, Meta: Meta{TotalCount: len(runs)}})
}
