// Package httpapi exposes the shopping assistant over HTTP: a JSON API
// for chat, search and product detail, plus the embedded storefront
// chat page.
package httpapi

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"time"
)

//go:embed static
var staticFiles embed.FS

// Server is the HTTP server for the shopping assistant.
type Server struct {
	ports *Ports
	mux   *http.ServeMux
}

// NewServer creates a new HTTP server with the given ports.
func NewServer(ports *Ports) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	s := &Server{
		ports: ports,
		mux:   http.NewServeMux(),
	}
	s.registerRoutes()

	return s, nil
}

// Handler returns the root HTTP handler. Exposed for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// registerRoutes wires the API endpoints and the static chat page.
func (s *Server) registerRoutes() {
	s.mux.HandleFunc("POST /api/completions", s.handleCompletions)
	s.mux.HandleFunc("POST /api/chat", s.handleChat)
	s.mux.HandleFunc("POST /api/chat/reset", s.handleChatReset)
	s.mux.HandleFunc("GET /products", s.handleProducts)
	s.mux.HandleFunc("POST /shopify-api", s.handleProductDetail)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)

	static, err := fs.Sub(staticFiles, "static")
	if err != nil {
		// The embed directive guarantees the subtree exists.
		panic(err)
	}
	s.mux.Handle("/", http.FileServer(http.FS(static)))
}

// Run starts the server on the specified address.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) Run(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown when context is cancelled
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx) //nolint:errcheck
	}()

	err := httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}
