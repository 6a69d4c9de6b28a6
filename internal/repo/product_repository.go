package repo

import (
	"context"
	"errors"
	"time"

	"github.com/rogerio-castellano/product-catalog/internal/models"
	"github.com/shopspring/decimal"
)

// ProductRepository defines the interface for product data operations.
type ProductRepository interface {
	FindAll(ctx context.Context, limit int) ([]models.Product, error)
	FindPaged(ctx context.Context, page PageRequest) ([]models.Product, error)
	FindByID(ctx context.Context, id int64) (models.Product, error)
	SearchByTitle(ctx context.Context, query string, limit int) ([]models.Product, error)
	SearchByTitlePaged(ctx context.Context, query string, page PageRequest) ([]models.Product, error)
	UpsertByExternalID(ctx context.Context, p models.Product) (int64, error)
	UpdateProduct(ctx context.Context, id int64, title string, price decimal.NullDecimal, url *string) (int64, error)
	InsertManual(ctx context.Context, title string, price decimal.NullDecimal, url *string) (int64, error)
	DeleteByID(ctx context.Context, id int64) (int64, error)
}

// PageRequest selects a window of rows. Sort and Dir are user input and are
// normalized by SortColumn and SortDirection before reaching SQL.
type PageRequest struct {
	Offset int
	Size   int
	Sort   string
	Dir    string
}

// ErrProductNotFound is returned when a product is not found in the repository.
var ErrProductNotFound = errors.New("product not found")

// ErrMissingExternalID is returned by UpsertByExternalID for products without an external id.
var ErrMissingExternalID = errors.New("product has no external id")

// QueryTimeout bounds every statement the Postgres repositories run.
const QueryTimeout = 3 * time.Second
