package handlers

import (
	"context"

	"github.com/rogerio-castellano/product-catalog/internal/importer"
	"github.com/rogerio-castellano/product-catalog/internal/repo"
	"github.com/sirupsen/logrus"
)

// ImportRunner triggers imports and exposes their history.
type ImportRunner interface {
	Run(ctx context.Context, trigger string) (importer.Run, error)
	Runs() importer.RunLog
}

// Pinger reports whether the database is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Deps struct {
	Products repo.ProductRepository
	Stats    repo.StatsRepository
	// Importer is nil when the import job is disabled.
	Importer ImportRunner
	DB       Pinger
	Log      logrus.FieldLogger
}

// Server holds the collaborators shared by every handler.
type Server struct {
	products repo.ProductRepository
	stats    repo.StatsRepository
	importer ImportRunner
	db       Pinger
	log      logrus.FieldLogger
	views    *views
}

func NewServer(d Deps) *Server {
	log := d.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Server{
		products: d.Products,
		stats:    d.Stats,
		importer: d.Importer,
		db:       d.DB,
		log:      log,
		views:    mustParseViews(),
	}
}
