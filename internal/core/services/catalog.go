package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopassist-labs/shopassist/internal/core/domain"
	"github.com/shopassist-labs/shopassist/internal/core/ports/driven"
	"github.com/shopassist-labs/shopassist/internal/core/ports/driving"
	"github.com/shopassist-labs/shopassist/internal/logger"
)

// Ensure CatalogService implements the interface.
var _ driving.CatalogService = (*CatalogService)(nil)

// CatalogService holds the process-wide product catalog and its relevance
// index.
//
// The two are coupled positionally: document ordinal i in the index is
// product i in the slice, so a ranked hit dereferences straight into the
// snapshot. Reload builds a fresh slice+index pair and swaps both under one
// lock; readers that need ranking take both out under one lock via Snapshot.
// That keeps the invariant even while a reload is in flight.
type CatalogService struct {
	client   driven.CatalogClient
	newIndex func() driven.RelevanceIndex

	mu       sync.RWMutex
	products []domain.Product
	index    driven.RelevanceIndex

	readyOnce sync.Once
	readyCh   chan struct{}
}

// NewCatalogService creates a catalog service. newIndex is called on every
// reload to build a fresh index.
func NewCatalogService(client driven.CatalogClient, newIndex func() driven.RelevanceIndex) *CatalogService {
	return &CatalogService{
		client:   client,
		newIndex: newIndex,
		readyCh:  make(chan struct{}),
	}
}

// Reload fetches the full active product set and rebuilds the index.
// On failure the previous snapshot (if any) stays in place.
func (s *CatalogService) Reload(ctx context.Context) error {
	logger.Section("Catalog Load")

	products, err := s.client.ListProducts(ctx)
	if err != nil {
		logger.Warn("Catalog load failed: %v", err)
		return fmt.Errorf("load catalog: %w", err)
	}

	index := s.newIndex()
	for _, p := range products {
		index.Add(p.IndexText())
	}

	s.mu.Lock()
	s.products = products
	s.index = index
	s.mu.Unlock()

	s.readyOnce.Do(func() { close(s.readyCh) })

	logger.Info("Catalog loaded: %d products indexed", len(products))
	return nil
}

// Ready reports whether the initial load has completed.
func (s *CatalogService) Ready() bool {
	select {
	case <-s.readyCh:
		return true
	default:
		return false
	}
}

// WaitReady blocks until the catalog is ready or the context is done.
func (s *CatalogService) WaitReady(ctx context.Context) error {
	select {
	case <-s.readyCh:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Products returns the current catalog snapshot with raw tags. The returned
// slice is swapped, never mutated, by Reload; callers must not modify it.
func (s *CatalogService) Products() ([]domain.Product, error) {
	if !s.Ready() {
		return nil, domain.ErrNotReady
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.products, nil
}

// Count returns the number of products in the current snapshot.
func (s *CatalogService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.products)
}

// Snapshot returns the product slice and index as one consistent pair.
// Ranking must go through this accessor: taking the slice and index in
// separate calls can straddle a reload and break the positional invariant.
func (s *CatalogService) Snapshot() ([]domain.Product, driven.RelevanceIndex, error) {
	if !s.Ready() {
		return nil, nil, domain.ErrNotReady
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.products, s.index, nil
}
