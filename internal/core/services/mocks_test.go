package services

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/shopassist-labs/shopassist/internal/core/domain"
	"github.com/shopassist-labs/shopassist/internal/core/ports/driven"
)

// --- Mock implementations of driven ports ---

// mockCatalogClient implements driven.CatalogClient for testing.
type mockCatalogClient struct {
	mu        sync.Mutex
	products  []domain.Product
	listErr   error
	byHandle  map[string]*domain.Product
	handleErr error
	listCalls int
}

func (m *mockCatalogClient) ListProducts(_ context.Context) ([]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls++
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.products, nil
}

func (m *mockCatalogClient) GetProductByHandle(_ context.Context, handle string) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.handleErr != nil {
		return nil, m.handleErr
	}
	p, ok := m.byHandle[handle]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

// mockLLM implements driven.LLMService for testing.
type mockLLM struct {
	mu          sync.Mutex
	generateOut string
	generateErr error
	chatOut     string
	chatErr     error
	rawOut      json.RawMessage
	rawErr      error

	lastPrompt   string
	lastMessages []driven.ChatMessage
}

func (m *mockLLM) Generate(_ context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastPrompt = prompt
	if m.generateErr != nil {
		return "", m.generateErr
	}
	return m.generateOut, nil
}

func (m *mockLLM) Chat(_ context.Context, messages []driven.ChatMessage, _ driven.ChatOptions) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastMessages = messages
	if m.chatErr != nil {
		return "", m.chatErr
	}
	return m.chatOut, nil
}

func (m *mockLLM) ChatRaw(_ context.Context, messages []driven.ChatMessage) (json.RawMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastMessages = messages
	if m.rawErr != nil {
		return nil, m.rawErr
	}
	return m.rawOut, nil
}

func (m *mockLLM) ModelName() string { return "mock-model" }

func (m *mockLLM) Ping(_ context.Context) error { return nil }

func (m *mockLLM) Close() error { return nil }

// mockPromptStore implements driven.PromptStore for testing.
type mockPromptStore struct {
	prompts map[string]string
	loadErr error
}

func (m *mockPromptStore) Load(name string) (string, error) {
	if m.loadErr != nil {
		return "", m.loadErr
	}
	return m.prompts[name], nil
}

func (m *mockPromptStore) Reload() {}

// --- Mock implementations of driving ports ---

// mockSearchService implements driving.SearchService for testing.
type mockSearchService struct {
	results []domain.RankedProduct
	err     error

	lastQuery string
	lastLimit int
	calls     int
}

func (m *mockSearchService) Search(_ context.Context, query string, limit int) ([]domain.RankedProduct, error) {
	m.calls++
	m.lastQuery = query
	m.lastLimit = limit
	if m.err != nil {
		return nil, m.err
	}
	return m.results, nil
}

func (m *mockSearchService) AllProducts(_ context.Context) ([]domain.Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([]domain.Product, 0, len(m.results))
	for _, r := range m.results {
		out = append(out, r.Product)
	}
	return out, nil
}

// mockSelectionService implements driving.SelectionService for testing.
type mockSelectionService struct {
	cards []domain.ProductCard

	lastUserText   string
	lastCandidates []domain.RankedProduct
	calls          int
}

func (m *mockSelectionService) SelectProducts(
	_ context.Context, userText string, candidates []domain.RankedProduct,
) []domain.ProductCard {
	m.calls++
	m.lastUserText = userText
	m.lastCandidates = candidates
	return m.cards
}

// testProducts is the canonical two-dress catalog from the search scenario.
func testProducts() []domain.Product {
	return []domain.Product{
		{
			ID:     "gid://shop/Product/1",
			Handle: "pink-dress",
			Title:  "Pink Smocked Dress",
			Tags:   []string{"pink", "dress"},
		},
		{
			ID:     "gid://shop/Product/2",
			Handle: "blue-dress",
			Title:  "Blue Smocked Dress",
			Tags:   []string{"blue", "dress"},
		},
	}
}
