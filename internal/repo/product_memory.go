package repo

import (
	"cmp"
	"context"
	"regexp"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/rogerio-castellano/product-catalog/internal/models"
	"github.com/shopspring/decimal"
)

// InMemoryProductRepository is an in-memory implementation of ProductRepository.
// Ordering follows Postgres, including NULL prices sorting last ascending and first descending.
// Title search follows ILIKE, wildcards included.
type InMemoryProductRepository struct {
	mu       sync.RWMutex
	products []models.Product
	nextID   int64
}

// NewInMemoryProductRepository creates a new instance of InMemoryProductRepository.
func NewInMemoryProductRepository() *InMemoryProductRepository {
	return &InMemoryProductRepository{
		products: []models.Product{},
		nextID:   1,
	}
}

func (r *InMemoryProductRepository) FindAll(_ context.Context, limit int) ([]models.Product, error) {
	return r.window(nil, PageRequest{Size: limit, Sort: DefaultSort, Dir: DefaultDir}), nil
}

func (r *InMemoryProductRepository) FindPaged(_ context.Context, page PageRequest) ([]models.Product, error) {
	return r.window(nil, page), nil
}

// FindByID retrieves a product by its ID.
func (r *InMemoryProductRepository) FindByID(_ context.Context, id int64) (models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.products {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Product{}, ErrProductNotFound
}

func (r *InMemoryProductRepository) SearchByTitle(_ context.Context, q string, limit int) ([]models.Product, error) {
	return r.window(titleContains(q), PageRequest{Size: limit, Sort: DefaultSort, Dir: DefaultDir}), nil
}

func (r *InMemoryProductRepository) SearchByTitlePaged(_ context.Context, q string, page PageRequest) ([]models.Product, error) {
	return r.window(titleContains(q), page), nil
}

func (r *InMemoryProductRepository) UpsertByExternalID(_ context.Context, p models.Product) (int64, error) {
	if p.ExternalID == nil {
		return 0, ErrMissingExternalID
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	for i, existing := range r.products {
		if existing.ExternalID != nil && *existing.ExternalID == *p.ExternalID {
			existing.Title = p.Title
			existing.Price = p.Price
			existing.URL = p.URL
			existing.VariantsJSON = p.VariantsJSON
			existing.UpdatedAt = now
			r.products[i] = existing
			return 1, nil
		}
	}

	r.insertLocked(p, now)
	return 1, nil
}

func (r *InMemoryProductRepository) UpdateProduct(_ context.Context, id int64, title string, price decimal.NullDecimal, url *string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, p := range r.products {
		if p.ID == id {
			p.Title = title
			p.Price = price
			p.URL = url
			p.UpdatedAt = time.Now().UTC()
			r.products[i] = p
			return 1, nil
		}
	}
	return 0, nil
}

func (r *InMemoryProductRepository) InsertManual(_ context.Context, title string, price decimal.NullDecimal, url *string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := r.insertLocked(models.Product{Title: title, Price: price, URL: url}, time.Now().UTC())
	return p.ID, nil
}

// DeleteByID removes a product from the repository by its ID.
func (r *InMemoryProductRepository) DeleteByID(_ context.Context, id int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, p := range r.products {
		if p.ID == id {
			r.products = append(r.products[:i], r.products[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

// Clear drops every product. Ids keep increasing, as with an identity column.
func (r *InMemoryProductRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products = []models.Product{}
}

// Count returns the number of stored products.
func (r *InMemoryProductRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.products)
}

func (r *InMemoryProductRepository) snapshot() []models.Product {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.products)
}

func (r *InMemoryProductRepository) insertLocked(p models.Product, now time.Time) models.Product {
	p.ID = r.nextID
	r.nextID++
	p.CreatedAt = now
	p.UpdatedAt = now
	r.products = append(r.products, p)
	return p
}

func (r *InMemoryProductRepository) window(match func(models.Product) bool, page PageRequest) []models.Product {
	var filtered []models.Product
	for _, p := range r.snapshot() {
		if match == nil || match(p) {
			filtered = append(filtered, p)
		}
	}

	col, dir := SortColumn(page.Sort), SortDirection(page.Dir)
	slices.SortStableFunc(filtered, func(a, b models.Product) int {
		c := compareColumn(a, b, col)
		if dir == "desc" {
			c = -c
		}
		if c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})

	start := clamp(page.Offset, 0, len(filtered))
	end := clamp(start+max(page.Size, 0), start, len(filtered))
	return append([]models.Product{}, filtered[start:end]...)
}

// titleContains matches like title ILIKE '%'||q||'%': % and _ in q are
// wildcards and a backslash escapes the next character.
func titleContains(q string) func(models.Product) bool {
	re := regexp.MustCompile("(?is)" + likeToRegexp(q))
	return func(p models.Product) bool {
		return re.MatchString(p.Title)
	}
}

func likeToRegexp(q string) string {
	var b strings.Builder
	escaped := false
	for _, r := range q {
		switch {
		case escaped:
			b.WriteString(regexp.QuoteMeta(string(r)))
			escaped = false
		case r == '\\':
			escaped = true
		case r == '%':
			b.WriteString(".*")
		case r == '_':
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	return b.String()
}

func compareColumn(a, b models.Product, col string) int {
	switch col {
	case "title":
		return strings.Compare(a.Title, b.Title)
	case "price":
		// NULL is greater than any value, as in Postgres.
		switch {
		case !a.Price.Valid && !b.Price.Valid:
			return 0
		case !a.Price.Valid:
			return 1
		case !b.Price.Valid:
			return -1
		}
		return a.Price.Decimal.Cmp(b.Price.Decimal)
	case "created_at":
		return a.CreatedAt.Compare(b.CreatedAt)
	case "updated_at":
		return a.UpdatedAt.Compare(b.UpdatedAt)
	default:
		return cmp.Compare(a.ID, b.ID)
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
