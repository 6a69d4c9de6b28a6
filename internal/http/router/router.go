package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	_ "github.com/rogerio-castellano/product-catalog/docs"
	"github.com/rogerio-castellano/product-catalog/internal/http/handlers"
	mw "github.com/rogerio-castellano/product-catalog/internal/http/middleware"
	rl "github.com/rogerio-castellano/product-catalog/internal/http/rate_limiter"
	"github.com/rogerio-castellano/product-catalog/internal/metrics"
	"github.com/sirupsen/logrus"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

// NewRouter wires every route. limiter may be nil to disable rate limiting.
func NewRouter(s *handlers.Server, limiter *rl.Limiter, log logrus.FieldLogger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(mw.RequestLogger(log))
	r.Use(mw.Prometheus)
	r.Use(chimw.Recoverer)
	r.Use(chimw.StripSlashes)

	r.Get("/", s.HomeHandler)
	r.Get("/search", s.SearchPageHandler)
	r.Get("/products", s.ProductsTableHandler)
	r.Get("/products/search", s.SearchProductsHandler)
	r.Get("/products/{id}/edit", s.EditProductPageHandler)

	r.Group(func(r chi.Router) {
		r.Use(limiter.Middleware)
		r.Post("/products/add", s.AddProductHandler)
		r.Post("/products/{id}/edit", s.UpdateProductHandler)
		r.Post("/products/{id}/delete", s.DeleteProductHandler)
		r.Post("/import/run", s.RunImportHandler)
	})

	r.Get("/import/runs", s.ImportRunsHandler)
	r.Get("/stats", s.GetCatalogStatsHandler)
	r.Get("/healthz", s.HealthHandler)
	r.Handle("/metrics", metrics.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	return r
}
