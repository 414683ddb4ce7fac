package services

import (
	"context"
	"strings"

	"github.com/shopassist-labs/shopassist/internal/core/domain"
	"github.com/shopassist-labs/shopassist/internal/core/ports/driving"
	"github.com/shopassist-labs/shopassist/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// DefaultSearchLimit is used when a caller passes a non-positive limit.
const DefaultSearchLimit = 10

// SearchService ranks catalog products against free-text queries using the
// catalog's TF-IDF index.
type SearchService struct {
	catalog        *CatalogService
	reservedPrefix string
}

// NewSearchService creates a search service over the given catalog.
// reservedPrefix marks administrative tags stripped from results; empty
// falls back to domain.DefaultReservedTagPrefix.
func NewSearchService(catalog *CatalogService, reservedPrefix string) *SearchService {
	if reservedPrefix == "" {
		reservedPrefix = domain.DefaultReservedTagPrefix
	}
	return &SearchService{
		catalog:        catalog,
		reservedPrefix: reservedPrefix,
	}
}

// Search returns at most limit products by descending TF-IDF score.
func (s *SearchService) Search(_ context.Context, query string, limit int) ([]domain.RankedProduct, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		logger.Debug("Empty query, returning no results")
		return []domain.RankedProduct{}, nil
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	products, index, err := s.catalog.Snapshot()
	if err != nil {
		return nil, err
	}

	hits := index.Rank(query)
	logger.Debug("Query %q: %d hits, limit %d", query, len(hits), limit)

	if len(hits) > limit {
		hits = hits[:limit]
	}

	results := make([]domain.RankedProduct, 0, len(hits))
	for _, hit := range hits {
		results = append(results, domain.RankedProduct{
			Product: products[hit.Ordinal].Cleaned(s.reservedPrefix),
			Score:   hit.Score,
		})
	}
	return results, nil
}

// AllProducts returns the full catalog with cleaned tags, in catalog order.
func (s *SearchService) AllProducts(_ context.Context) ([]domain.Product, error) {
	products, err := s.catalog.Products()
	if err != nil {
		return nil, err
	}

	cleaned := make([]domain.Product, 0, len(products))
	for _, p := range products {
		cleaned = append(cleaned, p.Cleaned(s.reservedPrefix))
	}
	return cleaned, nil
}
