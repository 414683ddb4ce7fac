package httpapi

import (
	"errors"

	"github.com/shopassist-labs/shopassist/internal/core/ports/driven"
	"github.com/shopassist-labs/shopassist/internal/core/ports/driving"
)

// Port validation errors.
var (
	ErrMissingChatService    = errors.New("httpapi: chat service is required")
	ErrMissingSearchService  = errors.New("httpapi: search service is required")
	ErrMissingCatalogService = errors.New("httpapi: catalog service is required")
)

// Ports aggregates the port interfaces required by the HTTP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Chat orchestrates conversational turns.
	Chat driving.ChatService

	// Search ranks catalog products against a query.
	Search driving.SearchService

	// Catalog reports readiness and owns the product snapshot.
	Catalog driving.CatalogService

	// LLM backs the raw completions proxy. Optional; without it the
	// proxy responds 503.
	LLM driven.LLMService

	// CatalogClient resolves single products for the storefront detail
	// endpoint. Optional; without it the endpoint responds 503.
	CatalogClient driven.CatalogClient
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Chat == nil {
		return ErrMissingChatService
	}
	if p.Search == nil {
		return ErrMissingSearchService
	}
	if p.Catalog == nil {
		return ErrMissingCatalogService
	}
	return nil
}
