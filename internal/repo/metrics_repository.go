package repo

import (
	"context"
	"time"
)

// CatalogStats summarizes the products table for the home page and /stats.
type CatalogStats struct {
	TotalProducts    int        `json:"total_products"`
	ImportedProducts int        `json:"imported_products"`
	ManualProducts   int        `json:"manual_products"`
	PricedProducts   int        `json:"priced_products"`
	LastUpdatedAt    *time.Time `json:"last_updated_at,omitempty"`
}

type StatsRepository interface {
	GetCatalogStats(ctx context.Context) (CatalogStats, error)
}
