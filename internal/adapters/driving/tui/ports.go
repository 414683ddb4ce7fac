package tui

import (
	"github.com/shopassist-labs/shopassist/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Chat runs conversational turns.
	Chat driving.ChatService

	// Catalog reports catalog readiness and size for the status bar.
	// Optional; without it the status bar omits the product count.
	Catalog driving.CatalogService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Chat == nil {
		return ErrMissingChatService
	}
	return nil
}
