package repo

import "context"

type InMemoryStatsRepository struct {
	productRepo *InMemoryProductRepository
}

func NewInMemoryStatsRepository(productRepo *InMemoryProductRepository) *InMemoryStatsRepository {
	return &InMemoryStatsRepository{productRepo: productRepo}
}

// GetCatalogStats implements StatsRepository.
func (i *InMemoryStatsRepository) GetCatalogStats(_ context.Context) (CatalogStats, error) {
	s := CatalogStats{}
	for _, p := range i.productRepo.snapshot() {
		s.TotalProducts++
		if p.IsImported() {
			s.ImportedProducts++
		} else {
			s.ManualProducts++
		}
		if p.Price.Valid {
			s.PricedProducts++
		}
		if s.LastUpdatedAt == nil || p.UpdatedAt.After(*s.LastUpdatedAt) {
			updated := p.UpdatedAt
			s.LastUpdatedAt = &updated
		}
	}
	return s, nil
}
