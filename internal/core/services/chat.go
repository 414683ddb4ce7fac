package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/shopassist-labs/shopassist/internal/core/domain"
	"github.com/shopassist-labs/shopassist/internal/core/ports/driven"
	"github.com/shopassist-labs/shopassist/internal/core/ports/driving"
	"github.com/shopassist-labs/shopassist/internal/logger"
)

// Ensure ChatService implements the interfaces.
var (
	_ driving.ChatService     = (*ChatService)(nil)
	_ driven.PromptStoreAware = (*ChatService)(nil)
)

// searchCandidateLimit is how many ranked candidates feed the selection
// pipeline on a marker turn.
const searchCandidateLimit = 10

// ChatService orchestrates conversational turns. It keeps registered
// conversations in memory for the process lifetime; there is no persistence
// across restarts.
type ChatService struct {
	llm         driven.LLMService
	search      driving.SearchService
	selection   driving.SelectionService
	catalog     driven.CatalogClient
	promptStore driven.PromptStore
	marker      string

	mu            sync.RWMutex
	conversations map[string]*domain.Conversation
}

// NewChatService creates a chat orchestrator. catalog may be nil, in which
// case product cards are served without image enrichment. marker empty falls
// back to domain.DefaultQueryMarker.
func NewChatService(
	llm driven.LLMService,
	search driving.SearchService,
	selection driving.SelectionService,
	catalog driven.CatalogClient,
	marker string,
) *ChatService {
	if marker == "" {
		marker = domain.DefaultQueryMarker
	}
	return &ChatService{
		llm:           llm,
		search:        search,
		selection:     selection,
		catalog:       catalog,
		marker:        marker,
		conversations: make(map[string]*domain.Conversation),
	}
}

// SetPromptStore sets the prompt store for the system prompt template.
func (s *ChatService) SetPromptStore(store driven.PromptStore) {
	s.promptStore = store
}

// NewConversation starts and registers a conversation.
func (s *ChatService) NewConversation(systemPrompt string) *domain.Conversation {
	if systemPrompt == "" {
		systemPrompt = s.systemPrompt()
	}
	conv := domain.NewConversation(systemPrompt)

	s.mu.Lock()
	s.conversations[conv.ID] = conv
	s.mu.Unlock()

	return conv
}

// Conversation returns a registered conversation by ID.
func (s *ChatService) Conversation(id string) (*domain.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	conv, ok := s.conversations[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return conv, nil
}

// Send runs one conversational turn. The completion call sees the whole
// transcript; the selection pipeline, when triggered, sees only the user's
// input and the search candidates.
func (s *ChatService) Send(ctx context.Context, conv *domain.Conversation, input string) (domain.Turn, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return domain.Turn{}, domain.ErrInvalidInput
	}
	if s.llm == nil {
		return domain.Turn{}, domain.ErrLLMUnavailable
	}

	conv.Append(domain.RoleUser, input)

	reply, err := s.llm.Chat(ctx, toChatMessages(conv.Messages), driven.ChatOptions{})
	if err != nil {
		// The user message stays in the transcript; the caller re-enables
		// its input and may retry the turn.
		return domain.Turn{}, fmt.Errorf("completion: %w", err)
	}

	message, query := domain.SplitMarker(reply, s.marker)
	turn := domain.Turn{
		ConversationID: conv.ID,
		Reply:          message,
		Query:          query,
	}

	if query != "" {
		turn.Products = s.runSearchPipeline(ctx, input, query)
	}

	// Only the visible message joins the history: the marker and any card
	// markup never feed back into the next completion call.
	conv.Append(domain.RoleAssistant, message)

	return turn, nil
}

// Reset replaces the conversation's transcript with a fresh system message.
func (s *ChatService) Reset(conv *domain.Conversation, systemPrompt string) {
	if systemPrompt == "" {
		systemPrompt = s.systemPrompt()
	}
	conv.Reset(systemPrompt)
}

// runSearchPipeline executes relevance search + LLM selection + image
// enrichment. Every failure path degrades to no products; a search-triggering
// turn must never fail the whole exchange.
func (s *ChatService) runSearchPipeline(ctx context.Context, userText, query string) []domain.ProductCard {
	candidates, err := s.search.Search(ctx, query, searchCandidateLimit)
	if err != nil {
		logger.Warn("Product search failed for %q: %v", query, err)
		return nil
	}
	if len(candidates) == 0 {
		logger.Debug("No candidates for query %q", query)
		return nil
	}

	cards := s.selection.SelectProducts(ctx, userText, candidates)
	if len(cards) == 0 {
		return nil
	}

	s.enrichImages(ctx, cards)
	return cards
}

// enrichImages fills in missing card images with a per-card detail fetch.
// The fan-out is bounded by domain.MaxSelectedProducts; card order is fixed
// by index, so concurrent completion cannot reorder results. A failed fetch
// leaves that card's image empty.
func (s *ChatService) enrichImages(ctx context.Context, cards []domain.ProductCard) {
	if s.catalog == nil {
		return
	}

	var wg sync.WaitGroup
	for i := range cards {
		if cards[i].ImageURL != "" {
			continue
		}
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			product, err := s.catalog.GetProductByHandle(ctx, cards[i].Handle)
			if err != nil {
				logger.Debug("Image enrichment failed for %s: %v", cards[i].Handle, err)
				return
			}
			cards[i].ImageURL = product.ImageURL
		}(i)
	}
	wg.Wait()
}

// systemPrompt resolves the configured system prompt.
func (s *ChatService) systemPrompt() string {
	if s.promptStore != nil {
		if p, err := s.promptStore.Load(driven.PromptChatSystem); err == nil && p != "" {
			return p
		}
	}
	return domain.DefaultSystemPrompt
}

// toChatMessages converts transcript messages to the completion wire shape.
func toChatMessages(messages []domain.Message) []driven.ChatMessage {
	out := make([]driven.ChatMessage, len(messages))
	for i, m := range messages {
		out[i] = driven.ChatMessage{Role: m.Role, Content: m.Content}
	}
	return out
}
