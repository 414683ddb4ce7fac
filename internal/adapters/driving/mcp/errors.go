// Package mcp provides an MCP (Model Context Protocol) server adapter for
// the assistant. It lets AI agents search the store catalog and read
// product details over stdio or HTTP.
package mcp

import "errors"

// ErrMissingSearchService is returned when the search service is not provided.
var ErrMissingSearchService = errors.New("mcp: search service is required")
