package httpapi

import (
	"context"
	"encoding/json"

	"github.com/shopassist-labs/shopassist/internal/core/domain"
	"github.com/shopassist-labs/shopassist/internal/core/ports/driven"
)

// mockChatService implements driving.ChatService for testing.
type mockChatService struct {
	conversations map[string]*domain.Conversation
	turn          domain.Turn
	sendErr       error

	lastInput        string
	resets           int
	lastSystemPrompt string
}

func newMockChatService() *mockChatService {
	return &mockChatService{conversations: make(map[string]*domain.Conversation)}
}

func (m *mockChatService) NewConversation(systemPrompt string) *domain.Conversation {
	if systemPrompt == "" {
		systemPrompt = domain.DefaultSystemPrompt
	}
	conv := domain.NewConversation(systemPrompt)
	m.conversations[conv.ID] = conv
	return conv
}

func (m *mockChatService) Conversation(id string) (*domain.Conversation, error) {
	conv, ok := m.conversations[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return conv, nil
}

func (m *mockChatService) Send(_ context.Context, conv *domain.Conversation, input string) (domain.Turn, error) {
	m.lastInput = input
	if m.sendErr != nil {
		return domain.Turn{}, m.sendErr
	}
	turn := m.turn
	turn.ConversationID = conv.ID
	return turn, nil
}

func (m *mockChatService) Reset(conv *domain.Conversation, systemPrompt string) {
	m.resets++
	m.lastSystemPrompt = systemPrompt
	conv.Reset(systemPrompt)
}

// mockSearchService implements driving.SearchService for testing.
type mockSearchService struct {
	results []domain.RankedProduct
	all     []domain.Product
	err     error

	lastQuery string
	lastLimit int
}

func (m *mockSearchService) Search(_ context.Context, query string, limit int) ([]domain.RankedProduct, error) {
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
	return m.all, nil
}

// mockCatalogService implements driving.CatalogService for testing.
type mockCatalogService struct {
	ready    bool
	products []domain.Product
}

func (m *mockCatalogService) Reload(_ context.Context) error { return nil }

func (m *mockCatalogService) Ready() bool { return m.ready }

func (m *mockCatalogService) WaitReady(_ context.Context) error { return nil }

func (m *mockCatalogService) Products() ([]domain.Product, error) {
	if !m.ready {
		return nil, domain.ErrNotReady
	}
	return m.products, nil
}

func (m *mockCatalogService) Count() int { return len(m.products) }

// mockLLM implements driven.LLMService for testing.
type mockLLM struct {
	rawOut json.RawMessage
	rawErr error

	lastMessages []driven.ChatMessage
}

func (m *mockLLM) Generate(_ context.Context, _ string, _ driven.GenerateOptions) (string, error) {
	return "", nil
}

func (m *mockLLM) Chat(_ context.Context, _ []driven.ChatMessage, _ driven.ChatOptions) (string, error) {
	return "", nil
}

func (m *mockLLM) ChatRaw(_ context.Context, messages []driven.ChatMessage) (json.RawMessage, error) {
	m.lastMessages = messages
	if m.rawErr != nil {
		return nil, m.rawErr
	}
	return m.rawOut, nil
}

func (m *mockLLM) ModelName() string { return "mock-model" }

func (m *mockLLM) Ping(_ context.Context) error { return nil }

func (m *mockLLM) Close() error { return nil }

// mockCatalogClient implements driven.CatalogClient for testing.
type mockCatalogClient struct {
	byHandle map[string]*domain.Product
	err      error
}

func (m *mockCatalogClient) ListProducts(_ context.Context) ([]domain.Product, error) {
	return nil, nil
}

func (m *mockCatalogClient) GetProductByHandle(_ context.Context, handle string) (*domain.Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.byHandle[handle]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}
