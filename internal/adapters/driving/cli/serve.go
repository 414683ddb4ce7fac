package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/shopassist-labs/shopassist/internal/adapters/driving/httpapi"
	"github.com/shopassist-labs/shopassist/internal/core/ports/driving"
	"github.com/shopassist-labs/shopassist/internal/logger"
)

// Startup fetch retry policy. The shopify client retries within a
// request; this covers outages that outlast it, so the server does not
// sit not-ready until a restart.
const (
	catalogLoadRetries = 5
	catalogLoadDelay   = 2 * time.Second
)

var (
	servePort    int
	serveRefresh time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the assistant HTTP server",
	Long: `Start the HTTP server that backs the storefront chat widget.

The catalog is fetched in the background on startup; /products and
/api/chat respond 503 until the first fetch completes. Use --refresh to
re-fetch the catalog periodically.

Endpoints:
  POST /api/chat        - one conversational turn with product cards
  POST /api/chat/reset  - clear a conversation back to its system message
  POST /api/completions - raw completion proxy (provider wire format)
  GET  /products        - catalog listing or relevance search (?query=)
  POST /shopify-api     - single product detail by handle
  GET  /healthz         - liveness and catalog readiness
  GET  /                - embedded chat page`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "listen port (default from config or PORT)")
	serveCmd.Flags().DurationVar(&serveRefresh, "refresh", 0, "catalog refresh interval (0 = startup fetch only)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if chatService == nil {
		if err := initServices(false); err != nil {
			return err
		}
	}

	ctx := cmd.Context()

	// Startup fetch runs in the background so the server can bind
	// immediately; readiness gates the endpoints that need the catalog.
	go loadCatalogWithRetry(ctx, catalogService, catalogLoadRetries, catalogLoadDelay)

	if serveRefresh > 0 {
		go func() {
			ticker := time.NewTicker(serveRefresh)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					if err := catalogService.Reload(ctx); err != nil {
						logger.Warn("Catalog refresh failed: %v", err)
					}
				}
			}
		}()
	}

	if promptStore != nil {
		go func() {
			if err := promptStore.Watch(ctx); err != nil && ctx.Err() == nil {
				logger.Warn("Prompt watcher stopped: %v", err)
			}
		}()
	}

	server, err := httpapi.NewServer(&httpapi.Ports{
		Chat:          chatService,
		Search:        searchService,
		Catalog:       catalogService,
		LLM:           llmService,
		CatalogClient: catalogClient,
	})
	if err != nil {
		return err
	}

	port := servePort
	if port == 0 {
		port = settings.Server.Port
	}
	addr := fmt.Sprintf(":%d", port)
	fmt.Fprintf(cmd.OutOrStdout(), "Assistant listening on http://localhost%s\n", addr)
	return server.Run(ctx, addr)
}

// loadCatalogWithRetry performs the startup catalog fetch, retrying a
// failed load with doubling delay until it succeeds or the attempt
// budget runs out. The service stays not-ready between attempts.
func loadCatalogWithRetry(ctx context.Context, catalog driving.CatalogService, retries int, delay time.Duration) {
	for attempt := 0; ; attempt++ {
		err := catalog.Reload(ctx)
		if err == nil {
			logger.Info("Catalog loaded: %d products", catalog.Count())
			return
		}
		if attempt == retries {
			logger.Warn("Giving up on catalog fetch after %d attempts: %v", attempt+1, err)
			return
		}
		logger.Warn("Catalog fetch failed (attempt %d), retrying in %s: %v", attempt+1, delay, err)
		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}
		delay *= 2
	}
}
