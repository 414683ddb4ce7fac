package cli

import (
	"context"
	"errors"

	"github.com/shopassist-labs/shopassist/internal/core/domain"
)

// mockSearchService implements driving.SearchService for CLI tests.
type mockSearchService struct {
	results []domain.RankedProduct
	all     []domain.Product
}

func (m *mockSearchService) Search(
	_ context.Context,
	_ string,
	_ int,
) ([]domain.RankedProduct, error) {
	return m.results, nil
}

func (m *mockSearchService) AllProducts(_ context.Context) ([]domain.Product, error) {
	return m.all, nil
}

// mockSearchServiceError always fails.
type mockSearchServiceError struct{}

func (m *mockSearchServiceError) Search(
	_ context.Context,
	_ string,
	_ int,
) ([]domain.RankedProduct, error) {
	return nil, errors.New("index unavailable")
}

func (m *mockSearchServiceError) AllProducts(_ context.Context) ([]domain.Product, error) {
	return nil, errors.New("index unavailable")
}

// mockChatService implements driving.ChatService for CLI tests.
type mockChatService struct {
	turn domain.Turn
}

func (m *mockChatService) NewConversation(systemPrompt string) *domain.Conversation {
	return domain.NewConversation(systemPrompt)
}

func (m *mockChatService) Conversation(_ string) (*domain.Conversation, error) {
	return nil, domain.ErrNotFound
}

func (m *mockChatService) Send(
	_ context.Context,
	_ *domain.Conversation,
	_ string,
) (domain.Turn, error) {
	return m.turn, nil
}

func (m *mockChatService) Reset(conv *domain.Conversation, systemPrompt string) {
	conv.Reset(systemPrompt)
}

// mockCatalogService implements driving.CatalogService for CLI tests.
// Reload fails `failures` times before succeeding.
type mockCatalogService struct {
	failures int
	reloads  int
	ready    bool
}

func (m *mockCatalogService) Reload(_ context.Context) error {
	m.reloads++
	if m.reloads <= m.failures {
		return errors.New("upstream unreachable")
	}
	m.ready = true
	return nil
}

func (m *mockCatalogService) Ready() bool { return m.ready }

func (m *mockCatalogService) WaitReady(_ context.Context) error { return nil }

func (m *mockCatalogService) Products() ([]domain.Product, error) {
	if !m.ready {
		return nil, domain.ErrNotReady
	}
	return nil, nil
}

func (m *mockCatalogService) Count() int { return 0 }

// setupTestServices injects mock services so commands run without
// configuration. The returned cleanup restores the previous wiring.
func setupTestServices() func() {
	oldSearch := searchService
	oldChat := chatService
	oldCatalog := catalogService

	searchService = &mockSearchService{
		results: []domain.RankedProduct{
			{
				Product: domain.Product{
					Handle: "pink-dress",
					Title:  "Pink Dress",
					Tags:   []string{"pink", "dress"},
				},
				Score: 2.5,
			},
			{
				Product: domain.Product{Handle: "blue-shirt", Title: "Blue Shirt"},
				Score:   1.0,
			},
		},
	}
	chatService = &mockChatService{}
	catalogService = nil

	return func() {
		searchService = oldSearch
		chatService = oldChat
		catalogService = oldCatalog
	}
}
