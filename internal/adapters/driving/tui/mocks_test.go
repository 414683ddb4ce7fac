package tui

import (
	"context"

	"github.com/shopassist-labs/shopassist/internal/core/domain"
)

// mockChatService is a mock implementation of driving.ChatService.
type mockChatService struct {
	turn      domain.Turn
	sendErr   error
	lastInput string
	sends     int
	resets    int
}

func (m *mockChatService) NewConversation(systemPrompt string) *domain.Conversation {
	return domain.NewConversation(systemPrompt)
}

func (m *mockChatService) Conversation(_ string) (*domain.Conversation, error) {
	return nil, domain.ErrNotFound
}

func (m *mockChatService) Send(
	_ context.Context,
	conv *domain.Conversation,
	input string,
) (domain.Turn, error) {
	m.lastInput = input
	m.sends++
	if m.sendErr != nil {
		return domain.Turn{}, m.sendErr
	}
	turn := m.turn
	turn.ConversationID = conv.ID
	return turn, nil
}

func (m *mockChatService) Reset(conv *domain.Conversation, systemPrompt string) {
	m.resets++
	conv.Reset(systemPrompt)
}

// mockCatalogService is a mock implementation of driving.CatalogService.
type mockCatalogService struct {
	ready    bool
	products []domain.Product
}

func (m *mockCatalogService) Reload(_ context.Context) error {
	return nil
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
