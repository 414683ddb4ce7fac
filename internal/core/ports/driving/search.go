package driving

import (
	"context"

	"github.com/shopassist-labs/shopassist/internal/core/domain"
)

// SearchService ranks catalog products against free-text queries.
type SearchService interface {
	// Search returns at most limit products ordered by non-increasing
	// relevance score, tags cleaned for display. An empty or whitespace
	// query yields an empty result. Returns domain.ErrNotReady before the
	// catalog's initial load completes.
	Search(ctx context.Context, query string, limit int) ([]domain.RankedProduct, error)

	// AllProducts returns the full catalog with cleaned tags, in catalog
	// order. Returns domain.ErrNotReady before the initial load completes.
	AllProducts(ctx context.Context) ([]domain.Product, error)
}
