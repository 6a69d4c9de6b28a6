package repo

import (
	"context"
	"database/sql"
	"fmt"
)

type PostgresStatsRepository struct {
	db *sql.DB
}

func NewPostgresStatsRepository(db *sql.DB) *PostgresStatsRepository {
	return &PostgresStatsRepository{db: db}
}

func (r *PostgresStatsRepository) GetCatalogStats(ctx context.Context) (CatalogStats, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeout)
	defer cancel()

	var (
		s           CatalogStats
		lastUpdated sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
			COUNT(external_id),
			COUNT(*) - COUNT(external_id),
			COUNT(price),
			MAX(updated_at)
		FROM products
	`).Scan(&s.TotalProducts, &s.ImportedProducts, &s.ManualProducts, &s.PricedProducts, &lastUpdated)
	if err != nil {
		return CatalogStats{}, fmt.Errorf("failed to compute catalog stats: %w", err)
	}
	if lastUpdated.Valid {
		s.LastUpdatedAt = &lastUpdated.Time
	}
	return s, nil
}
