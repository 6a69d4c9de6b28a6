package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
)

// writeJSON takes a response status code and arbitrary data and writes a json response to the client
func writeJSON(w http.ResponseWriter, status int, data any, headers ...http.Header) error {
	out, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	if len(headers) > 0 {
		for key, value := range headers[0] {
			w.Header()[key] = value
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(out)
	if err != nil {
		return fmt.Errorf("failed to write to response: %w", err)
	}

	return nil
}

// serverError logs err with the request id and answers 500 with msg only.
func (s *Server) serverError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	s.log.WithError(err).
		WithField("request_id", middleware.GetReqID(r.Context())).
		WithField("path", r.URL.Path).
		Error(msg)
	http.Error(w, msg, http.StatusInternalServerError)
}

func (s *Server) renderView(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	if err := s.views.render(w, status, name, data); err != nil {
		s.serverError(w, r, "could not render page", err)
	}
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	if err := writeJSON(w, status, data); err != nil {
		s.log.WithError(err).Warn("failed to write JSON response")
	}
}
