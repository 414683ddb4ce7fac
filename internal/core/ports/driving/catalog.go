package driving

import (
	"context"

	"github.com/shopassist-labs/shopassist/internal/core/domain"
)

// CatalogService owns the in-memory product catalog and its relevance index.
//
// Consistency contract: Products returns an immutable snapshot taken under
// lock; a concurrent Reload swaps the snapshot atomically, so readers see
// either the old or the new catalog, never a partially loaded one.
type CatalogService interface {
	// Reload fetches the full active product set and rebuilds the index.
	// The first successful Reload marks the service ready.
	Reload(ctx context.Context) error

	// Ready reports whether the initial load has completed.
	Ready() bool

	// WaitReady blocks until the catalog is ready or the context is done.
	WaitReady(ctx context.Context) error

	// Products returns the current catalog snapshot with raw tags.
	// Returns domain.ErrNotReady before the initial load completes.
	Products() ([]domain.Product, error)

	// Count returns the number of products in the current snapshot.
	Count() int
}
