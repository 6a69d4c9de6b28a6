package handlers

import (
	"net/http"

	"github.com/rogerio-castellano/product-catalog/internal/models"
)

// HomeHandler godoc
// @Summary Home page
// @Tags pages
// @Produce html
// @Success 200 {string} string "HTML page"
// @Router / [get]
func (s *Server) HomeHandler(w http.ResponseWriter, r *http.Request) {
	view := homeView{AppName: appName}
	if s.stats != nil {
		stats, err := s.stats.GetCatalogStats(r.Context())
		if err != nil {
			s.log.WithError(err).Warn("catalog stats unavailable")
		} else {
			view.Stats = &stats
		}
	}
	s.renderView(w, r, http.StatusOK, "index", view)
}

// SearchPageHandler godoc
// @Summary Search page shell
// @Description Renders the search box with an empty result table.
// @Tags pages
// @Produce html
// @Success 200 {string} string "HTML page"
// @Router /search [get]
func (s *Server) SearchPageHandler(w http.ResponseWriter, r *http.Request) {
	table := newTableView("/products/search", firstPage, "", []models.Product{})
	s.renderView(w, r, http.StatusOK, "search", searchView{AppName: appName, Table: table})
}
