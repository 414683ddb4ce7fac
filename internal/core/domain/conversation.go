package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Message roles. The completion API only understands these three.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// DefaultSystemPrompt seeds a fresh conversation.
const DefaultSystemPrompt = "You are a helpful assistant that provides detailed and accurate information."

// DefaultQueryMarker separates user-facing reply text from an embedded
// product search query in the assistant's output.
const DefaultQueryMarker = "QUERY:"

// Message is one entry in a conversation transcript.
type Message struct {
	// ID is assigned when the message is appended.
	ID string `json:"id"`

	// Role is one of RoleSystem, RoleUser, RoleAssistant.
	Role string `json:"role"`

	// Content is the message text.
	Content string `json:"content"`

	// CreatedAt is when the message was appended.
	CreatedAt time.Time `json:"createdAt"`
}

// Conversation is an ordered, append-only message history. It is reset
// wholesale by Reset; there is no per-message deletion.
type Conversation struct {
	// ID identifies the conversation within the process.
	ID string `json:"id"`

	// Messages is the transcript, system message first.
	Messages []Message `json:"messages"`
}

// NewConversation starts a conversation with a single system message.
// An empty systemPrompt falls back to DefaultSystemPrompt.
func NewConversation(systemPrompt string) *Conversation {
	c := &Conversation{ID: uuid.New().String()}
	c.Reset(systemPrompt)
	return c
}

// Append adds a message to the transcript and returns it.
func (c *Conversation) Append(role, content string) Message {
	msg := Message{
		ID:        uuid.New().String(),
		Role:      role,
		Content:   content,
		CreatedAt: time.Now(),
	}
	c.Messages = append(c.Messages, msg)
	return msg
}

// Reset replaces the whole transcript with a single fresh system message.
func (c *Conversation) Reset(systemPrompt string) {
	if systemPrompt == "" {
		systemPrompt = DefaultSystemPrompt
	}
	c.Messages = c.Messages[:0]
	c.Append(RoleSystem, systemPrompt)
}

// Transcript returns the messages excluding system entries, in order.
// This is what a front end renders.
func (c *Conversation) Transcript() []Message {
	out := make([]Message, 0, len(c.Messages))
	for _, m := range c.Messages {
		if m.Role == RoleSystem {
			continue
		}
		out = append(out, m)
	}
	return out
}

// Turn is the typed result of one conversational exchange: the assistant's
// visible reply, the extracted search query (empty when the marker was
// absent), and the selected product cards (nil or empty when no search ran
// or nothing matched — callers treat both the same).
type Turn struct {
	// ConversationID identifies the conversation the turn belongs to.
	ConversationID string `json:"conversationId"`

	// Reply is the user-visible assistant text.
	Reply string `json:"reply"`

	// Query is the text after the marker, trimmed. Empty means no search.
	Query string `json:"query,omitempty"`

	// Products holds at most MaxSelectedProducts cards, in relevance order.
	Products []ProductCard `json:"products,omitempty"`
}

// SplitMarker splits an assistant reply on the query marker. The text before
// the marker is the visible message; the text after is the search query.
// Without the marker the whole reply is the message and query is empty.
func SplitMarker(reply, marker string) (message, query string) {
	if marker == "" {
		marker = DefaultQueryMarker
	}
	before, after, found := strings.Cut(reply, marker)
	if !found {
		return strings.TrimSpace(reply), ""
	}
	return strings.TrimSpace(before), strings.TrimSpace(after)
}
