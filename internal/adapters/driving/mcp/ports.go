package mcp

import (
	"github.com/shopassist-labs/shopassist/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Search provides relevance search over the catalog.
	Search driving.SearchService

	// Catalog exposes the raw catalog snapshot for resources. Optional;
	// without it the catalog resources report empty.
	Catalog driving.CatalogService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	return nil
}
