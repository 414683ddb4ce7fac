// Package cli implements the shopassist command-line interface.
package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/shopassist-labs/shopassist/internal/adapters/driven/ai"
	"github.com/shopassist-labs/shopassist/internal/adapters/driven/config/file"
	"github.com/shopassist-labs/shopassist/internal/adapters/driven/shopify"
	"github.com/shopassist-labs/shopassist/internal/core/domain"
	"github.com/shopassist-labs/shopassist/internal/core/ports/driven"
	"github.com/shopassist-labs/shopassist/internal/core/ports/driving"
	"github.com/shopassist-labs/shopassist/internal/core/services"
	"github.com/shopassist-labs/shopassist/internal/index/tfidf"
	"github.com/shopassist-labs/shopassist/internal/logger"
)

// version is the build version, overridable at link time.
var version = "dev"

// Persistent flags.
var (
	verbose   bool
	configDir string
)

// Services wired by initServices. Tests may inject their own before a
// command runs; initServices is then skipped.
var (
	configStore      driven.ConfigStore
	promptStore      *file.PromptStore
	settings         *domain.Settings
	catalogClient    driven.CatalogClient
	llmService       driven.LLMService
	catalogService   *services.CatalogService
	searchService    driving.SearchService
	selectionService driving.SelectionService
	chatService      driving.ChatService
)

var rootCmd = &cobra.Command{
	Use:   "shopassist",
	Short: "Conversational shopping assistant for a Shopify catalog",
	Long: `Shopassist answers shopper questions in natural language, searches the
store catalog by relevance and shows the products an LLM picks as the
best match.

Credentials come from ~/.shopassist/config.toml or the environment
(SHOP_NAME, ACCESS_TOKEN, OPENAI_API_KEY / ANTHROPIC_API_KEY).`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "", "config directory (default ~/.shopassist)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// initServices builds the service graph from configuration. requireLLM
// controls whether a missing LLM provider is fatal; catalog credentials
// always are.
func initServices(requireLLM bool) error {
	store, err := file.NewConfigStore(configDir)
	if err != nil {
		return fmt.Errorf("open config store: %w", err)
	}
	configStore = store
	settings = file.LoadSettings(store)

	promptDir := ""
	if configDir != "" {
		promptDir = filepath.Join(configDir, "prompts")
	}
	promptStore, err = file.NewPromptStore(promptDir)
	if err != nil {
		return fmt.Errorf("open prompt store: %w", err)
	}

	if !settings.Shopify.IsConfigured() {
		return fmt.Errorf("shopify credentials missing: set shopify.shop_name and shopify.access_token in %s, or SHOP_NAME and ACCESS_TOKEN in the environment",
			store.Path())
	}

	client, err := shopify.NewClient(shopify.Config{
		ShopName:    settings.Shopify.ShopName,
		AccessToken: settings.Shopify.AccessToken,
		APIKey:      settings.Shopify.APIKey,
		Password:    settings.Shopify.Password,
	})
	if err != nil {
		return fmt.Errorf("create shopify client: %w", err)
	}
	catalogClient = client

	catalogService = services.NewCatalogService(client, func() driven.RelevanceIndex {
		return tfidf.New()
	})

	reservedPrefix := settings.Server.ReservedTagPrefix
	if reservedPrefix == "" {
		reservedPrefix = domain.DefaultReservedTagPrefix
	}
	searchService = services.NewSearchService(catalogService, reservedPrefix)

	llmService, err = ai.CreateAndValidateLLMService(&settings.LLM)
	if err != nil {
		if requireLLM {
			return err
		}
		logger.Warn("LLM unavailable, continuing without chat: %v", err)
		llmService = nil
	}
	if llmService == nil && requireLLM {
		return fmt.Errorf("no LLM provider configured: set llm.provider and llm.api_key in %s, or OPENAI_API_KEY / ANTHROPIC_API_KEY in the environment",
			store.Path())
	}
	if llmService != nil {
		logger.Info("Using LLM model %s", llmService.ModelName())
	}

	selection := services.NewSelectionService(llmService)
	selection.SetPromptStore(promptStore)
	selectionService = selection

	chat := services.NewChatService(llmService, searchService, selection, client,
		settings.Server.QueryMarker)
	chat.SetPromptStore(promptStore)
	chatService = chat

	return nil
}

// ensureCatalog loads the catalog if it has not been loaded yet. Used by
// one-shot commands; the server loads in the background instead.
func ensureCatalog(ctx context.Context) error {
	if catalogService == nil || catalogService.Ready() {
		return nil
	}
	logger.Info("Loading catalog...")
	if err := catalogService.Reload(ctx); err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	logger.Info("Catalog loaded: %d products", catalogService.Count())
	return nil
}
