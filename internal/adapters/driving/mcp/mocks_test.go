package mcp

import (
	"context"

	"github.com/shopassist-labs/shopassist/internal/core/domain"
)

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	results   []domain.RankedProduct
	all       []domain.Product
	err       error
	lastQuery string
	lastLimit int
}

func (m *mockSearchService) Search(
	_ context.Context,
	query string,
	limit int,
) ([]domain.RankedProduct, error) {
	m.lastQuery = query
	m.lastLimit = limit
	return m.results, m.err
}

func (m *mockSearchService) AllProducts(_ context.Context) ([]domain.Product, error) {
	return m.all, m.err
}

// mockCatalogService is a mock implementation of driving.CatalogService.
type mockCatalogService struct {
	ready    bool
	products []domain.Product
	err      error
}

func (m *mockCatalogService) Reload(_ context.Context) error {
	return m.err
}

func (m *mockCatalogService) Ready() bool {
	return m.ready
}

func (m *mockCatalogService) WaitReady(_ context.Context) error {
	return nil
}

func (m *mockCatalogService) Products() ([]domain.Product, error) {
	if !m.ready {
		return nil, domain.ErrNotReady
	}
	return m.products, nil
}

func (m *mockCatalogService) Count() int {
	return len(m.products)
}
