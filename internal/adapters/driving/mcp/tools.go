package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// SearchInput is the input schema for the search_products tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"free-text query to rank products against"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 10)"`
}

// SearchOutput is the output schema for the search_products tool.
type SearchOutput struct {
	Products []ProductResult `json:"products"`
	Count    int             `json:"count"`
}

// ProductResult represents a single ranked product.
type ProductResult struct {
	Handle   string   `json:"handle"`
	Title    string   `json:"title"`
	Tags     []string `json:"tags,omitempty"`
	ImageURL string   `json:"image_url,omitempty"`
	Score    float64  `json:"score"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_products",
		Description: "Search the store catalog by relevance to a free-text query",
	}, s.handleSearch)
}

// handleSearch handles the search_products tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = 10
	}

	results, err := s.ports.Search.Search(ctx, input.Query, limit)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Products: make([]ProductResult, len(results)),
		Count:    len(results),
	}

	for i := range results {
		output.Products[i] = ProductResult{
			Handle:   results[i].Product.Handle,
			Title:    results[i].Product.Title,
			Tags:     results[i].Product.Tags,
			ImageURL: results[i].Product.ImageURL,
			Score:    results[i].Score,
		}
	}

	return nil, output, nil
}
