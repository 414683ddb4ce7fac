package driving

import (
	"context"

	"github.com/shopassist-labs/shopassist/internal/core/domain"
)

// ChatService orchestrates conversational turns: completion, marker
// detection, product search and selection. It owns no rendering surface;
// front ends (HTTP, TUI) render the returned Turn themselves.
type ChatService interface {
	// NewConversation starts a conversation seeded with the configured
	// system prompt (or the given override) and registers it.
	NewConversation(systemPrompt string) *domain.Conversation

	// Conversation returns a registered conversation by ID.
	// Returns domain.ErrNotFound for unknown IDs.
	Conversation(id string) (*domain.Conversation, error)

	// Send appends the user input, runs the completion round-trip and, when
	// the assistant's reply carries the query marker, the search-and-select
	// pipeline. The user and assistant messages are appended to the
	// conversation; on completion failure nothing is appended beyond the
	// user message and the error is returned so the caller can re-enable
	// its input controls.
	Send(ctx context.Context, conv *domain.Conversation, input string) (domain.Turn, error)

	// Reset replaces the conversation's transcript with a single fresh
	// system message.
	Reset(conv *domain.Conversation, systemPrompt string)
}
