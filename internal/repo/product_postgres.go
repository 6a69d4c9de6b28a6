package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rogerio-castellano/product-catalog/internal/models"
	"github.com/shopspring/decimal"
)

const productColumns = `id, external_id, title, price, url, variants, created_at, updated_at`

type PostgresProductRepository struct {
	db *sql.DB
}

func NewPostgresProductRepository(db *sql.DB) *PostgresProductRepository {
	return &PostgresProductRepository{db: db}
}

func (r *PostgresProductRepository) FindAll(ctx context.Context, limit int) ([]models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY id DESC LIMIT $1`
	return r.query(ctx, query, limit)
}

func (r *PostgresProductRepository) FindPaged(ctx context.Context, page PageRequest) ([]models.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products %s LIMIT $1 OFFSET $2`,
		productColumns, orderByClause(page.Sort, page.Dir))
	return r.query(ctx, query, page.Size, page.Offset)
}

func (r *PostgresProductRepository) FindByID(ctx context.Context, id int64) (models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	ctx, cancel := context.WithTimeout(ctx, QueryTimeout)
	defer cancel()

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Product{}, ErrProductNotFound
	}
	if err != nil {
		return models.Product{}, fmt.Errorf("failed to fetch product %d: %w", id, err)
	}
	return p, nil
}

func (r *PostgresProductRepository) SearchByTitle(ctx context.Context, q string, limit int) ([]models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products
		WHERE title ILIKE $1
		ORDER BY id DESC
		LIMIT $2`
	return r.query(ctx, query, titlePattern(q), limit)
}

func (r *PostgresProductRepository) SearchByTitlePaged(ctx context.Context, q string, page PageRequest) ([]models.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products
		WHERE title ILIKE $1
		%s
		LIMIT $2 OFFSET $3`, productColumns, orderByClause(page.Sort, page.Dir))
	return r.query(ctx, query, titlePattern(q), page.Size, page.Offset)
}

func titlePattern(q string) string {
	return "%" + q + "%"
}

// UpsertByExternalID inserts the product or, when the external id already
// exists, overwrites the feed-owned columns. created_at is left untouched.
func (r *PostgresProductRepository) UpsertByExternalID(ctx context.Context, p models.Product) (int64, error) {
	if p.ExternalID == nil {
		return 0, ErrMissingExternalID
	}
	query := `
		INSERT INTO products (external_id, title, price, url, variants)
		VALUES ($1, $2, $3, $4, $5::jsonb)
		ON CONFLICT (external_id) DO UPDATE
		SET title = EXCLUDED.title,
			price = EXCLUDED.price,
			url = EXCLUDED.url,
			variants = EXCLUDED.variants,
			updated_at = now()`
	ctx, cancel := context.WithTimeout(ctx, QueryTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, query, *p.ExternalID, p.Title, nullableDecimal(p.Price), p.URL, nullableJSON(p.VariantsJSON))
	if err != nil {
		return 0, fmt.Errorf("failed to upsert product %s: %w", *p.ExternalID, err)
	}
	return res.RowsAffected()
}

func (r *PostgresProductRepository) UpdateProduct(ctx context.Context, id int64, title string, price decimal.NullDecimal, url *string) (int64, error) {
	query := `UPDATE products SET title = $1, price = $2, url = $3, updated_at = now() WHERE id = $4`
	ctx, cancel := context.WithTimeout(ctx, QueryTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, query, title, nullableDecimal(price), url, id)
	if err != nil {
		return 0, fmt.Errorf("failed to update product %d: %w", id, err)
	}
	return res.RowsAffected()
}

func (r *PostgresProductRepository) InsertManual(ctx context.Context, title string, price decimal.NullDecimal, url *string) (int64, error) {
	query := `INSERT INTO products (title, price, url) VALUES ($1, $2, $3) RETURNING id`
	ctx, cancel := context.WithTimeout(ctx, QueryTimeout)
	defer cancel()

	var id int64
	if err := r.db.QueryRowContext(ctx, query, title, nullableDecimal(price), url).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to insert product: %w", err)
	}
	return id, nil
}

func (r *PostgresProductRepository) DeleteByID(ctx context.Context, id int64) (int64, error) {
	query := `DELETE FROM products WHERE id = $1`
	ctx, cancel := context.WithTimeout(ctx, QueryTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete product %d: %w", id, err)
	}
	return res.RowsAffected()
}

func (r *PostgresProductRepository) query(ctx context.Context, query string, args ...any) ([]models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate products: %w", err)
	}
	return products, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(s rowScanner) (models.Product, error) {
	var (
		p          models.Product
		externalID sql.NullString
		url        sql.NullString
		variants   []byte
	)
	err := s.Scan(&p.ID, &externalID, &p.Title, &p.Price, &url, &variants, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return models.Product{}, err
	}
	if externalID.Valid {
		p.ExternalID = &externalID.String
	}
	if url.Valid {
		p.URL = &url.String
	}
	if variants != nil {
		p.VariantsJSON = json.RawMessage(variants)
	}
	return p, nil
}

func nullableJSON(raw json.RawMessage) any {
	if raw == nil {
		return nil
	}
	return string(raw)
}

// nullableDecimal sends prices as text so no precision is lost on the way to numeric.
func nullableDecimal(d decimal.NullDecimal) any {
	if !d.Valid {
		return nil
	}
	return d.Decimal.String()
}
