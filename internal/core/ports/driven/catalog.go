package driven

import (
	"context"

	"github.com/shopassist-labs/shopassist/internal/core/domain"
)

// CatalogClient talks to the commerce platform's product API.
//
// Implementations must apply their own timeout and retry policy: callers
// treat any returned error as "upstream unavailable" and degrade, they never
// retry themselves.
type CatalogClient interface {
	// ListProducts fetches the full active product set, following pagination
	// until the catalog is exhausted. Products are returned in the order the
	// platform yields them; that order becomes the index ordinal order.
	ListProducts(ctx context.Context) ([]domain.Product, error)

	// GetProductByHandle fetches a single product with its display image.
	// Returns domain.ErrNotFound if the handle does not exist.
	GetProductByHandle(ctx context.Context, handle string) (*domain.Product, error)
}
