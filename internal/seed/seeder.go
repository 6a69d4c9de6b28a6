package seed

import (
	"context"

	"github.com/rogerio-castellano/product-catalog/internal/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const (
	SampleTitle = "Sample Product"
	SampleURL   = "https://example.com/sample"
)

// SamplePrice is the price of the seeded row.
var SamplePrice = decimal.RequireFromString("19.99")

// Store is what seeding needs from the product repository.
type Store interface {
	FindAll(ctx context.Context, limit int) ([]models.Product, error)
	InsertManual(ctx context.Context, title string, price decimal.NullDecimal, url *string) (int64, error)
}

// IfEmpty inserts one sample product when the catalog has no rows. It never
// fails: errors are logged so startup can continue without a reachable store.
func IfEmpty(ctx context.Context, store Store, log logrus.FieldLogger) {
	existing, err := store.FindAll(ctx, 1)
	if err != nil {
		log.WithError(err).Warn("data seeding skipped due to error")
		return
	}
	if len(existing) > 0 {
		log.Debug("skipping seed; products table already has data")
		return
	}

	url := SampleURL
	id, err := store.InsertManual(ctx, SampleTitle, decimal.NewNullDecimal(SamplePrice), &url)
	if err != nil {
		log.WithError(err).Warn("data seeding skipped due to error")
		return
	}
	log.WithField("id", id).Info("seeded sample product as the database was empty")
}
