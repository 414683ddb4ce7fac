package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for assistant resources.
	uriScheme = "shopassist://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for the full catalog.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "catalog",
		Name:        "catalog",
		Description: "All active products in the store catalog",
		MIMEType:    "application/json",
	}, s.handleCatalogResource)

	// Template for a single product.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "products/{handle}",
		Name:        "product",
		Description: "A single product looked up by handle",
		MIMEType:    "application/json",
	}, s.handleProductResource)
}

// handleCatalogResource returns the full product catalog.
func (s *Server) handleCatalogResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	// Before the initial fetch completes the catalog is simply empty.
	if s.ports.Catalog != nil && !s.ports.Catalog.Ready() {
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     "[]",
			}},
		}, nil
	}

	products, err := s.ports.Search.AllProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}

	data, err := json.MarshalIndent(products, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling products: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleProductResource returns a single product by handle.
func (s *Server) handleProductResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	handle := extractHandle(req.Params.URI)
	if handle == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	products, err := s.ports.Search.AllProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}

	for i := range products {
		if products[i].Handle != handle {
			continue
		}
		data, err := json.MarshalIndent(products[i], "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshalling product: %w", err)
		}
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(data),
			}},
		}, nil
	}

	return nil, mcp.ResourceNotFoundError(req.Params.URI)
}

// extractHandle extracts the product handle from a URI like
// shopassist://products/{handle}.
func extractHandle(uri string) string {
	const prefix = uriScheme + "products/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	return strings.TrimPrefix(uri, prefix)
}
