package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/shopassist-labs/shopassist/internal/adapters/driven/config/file"
	"github.com/shopassist-labs/shopassist/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage assistant settings",
	Long: `View and configure store credentials, the LLM provider and server options.

Settings live in the config file; SHOP_NAME, ACCESS_TOKEN and the
provider API key environment variables override it at runtime.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Long: `Set a configuration value by its dot-notation key.

Known keys:
  shopify.shop_name            Store subdomain (without .myshopify.com)
  shopify.access_token         Admin API access token
  shopify.api_key              Legacy API key (basic auth)
  shopify.password             Legacy API password (basic auth)
  llm.provider                 openai, anthropic or ollama
  llm.api_key                  Provider API key
  llm.base_url                 Override the provider endpoint
  llm.model                    Override the default model
  server.port                  HTTP listen port
  server.query_marker          Marker splitting reply text from search query
  server.reserved_tag_prefix   Tag prefix hidden from shoppers`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsWizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Interactive setup wizard",
	Long:  `Run an interactive wizard to configure store credentials and the LLM provider.`,
	RunE:  runSettingsWizard,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsWizardCmd)
	rootCmd.AddCommand(settingsCmd)
}

// settableKeys are the keys accepted by `settings set`. server.port is
// the only integer.
var settableKeys = map[string]bool{
	file.KeyShopName:          true,
	file.KeyAccessToken:       true,
	file.KeyShopifyAPIKey:     true,
	file.KeyShopifyPassword:   true,
	file.KeyLLMProvider:       true,
	file.KeyLLMAPIKey:         true,
	file.KeyLLMBaseURL:        true,
	file.KeyLLMModel:          true,
	file.KeyServerPort:        true,
	file.KeyQueryMarker:       true,
	file.KeyReservedTagPrefix: true,
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if err := ensureConfigStore(); err != nil {
		return err
	}

	current := file.LoadSettings(configStore)

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Shopify]")
	cmd.Printf("  Shop: %s\n", valueOrUnset(current.Shopify.ShopName))
	if current.Shopify.AccessToken != "" {
		cmd.Printf("  Access Token: %s\n", maskSecret(current.Shopify.AccessToken))
	} else {
		cmd.Printf("  Access Token: (not set)\n")
	}
	cmd.Printf("  Status: %s\n", configuredStatus(current.Shopify.IsConfigured()))
	cmd.Println()

	cmd.Println("[LLM]")
	cmd.Printf("  Provider: %s\n", valueOrUnset(string(current.LLM.Provider)))
	if current.LLM.Model != "" {
		cmd.Printf("  Model: %s\n", current.LLM.Model)
	}
	if current.LLM.APIKey != "" {
		cmd.Printf("  API Key: %s\n", maskSecret(current.LLM.APIKey))
	} else {
		cmd.Printf("  API Key: (not set)\n")
	}
	cmd.Printf("  Status: %s\n", configuredStatus(current.LLM.IsConfigured()))
	cmd.Println()

	cmd.Println("[Server]")
	cmd.Printf("  Port: %d\n", current.Server.Port)
	marker := current.Server.QueryMarker
	if marker == "" {
		marker = domain.DefaultQueryMarker
	}
	cmd.Printf("  Query Marker: %s\n", marker)
	prefix := current.Server.ReservedTagPrefix
	if prefix == "" {
		prefix = domain.DefaultReservedTagPrefix
	}
	cmd.Printf("  Reserved Tag Prefix: %s\n", prefix)

	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	if !settableKeys[key] {
		return fmt.Errorf("unknown setting %q, see 'shopassist settings set --help'", key)
	}

	if err := ensureConfigStore(); err != nil {
		return err
	}

	if key == file.KeyServerPort {
		port, err := strconv.Atoi(value)
		if err != nil || port <= 0 {
			return fmt.Errorf("invalid port %q", value)
		}
		if err := configStore.Set(key, port); err != nil {
			return fmt.Errorf("failed to save setting: %w", err)
		}
	} else if err := configStore.Set(key, value); err != nil {
		return fmt.Errorf("failed to save setting: %w", err)
	}

	cmd.Printf("Set %s\n", key)
	return nil
}

func runSettingsWizard(cmd *cobra.Command, _ []string) error {
	if err := ensureConfigStore(); err != nil {
		return err
	}

	cmd.Println("Shopassist Setup Wizard")
	cmd.Println("=======================")
	cmd.Println()

	reader := bufio.NewReader(os.Stdin)

	cmd.Println("Step 1: Store Credentials")
	cmd.Println("-------------------------")
	cmd.Print("Shop name (without .myshopify.com): ")
	shopName := readLine(reader)
	if shopName == "" {
		return errors.New("shop name is required")
	}
	cmd.Print("Admin API access token: ")
	accessToken := readPassword()
	cmd.Println()
	if accessToken == "" {
		return errors.New("access token is required")
	}

	if err := configStore.Set(file.KeyShopName, shopName); err != nil {
		return fmt.Errorf("failed to save shop name: %w", err)
	}
	if err := configStore.Set(file.KeyAccessToken, accessToken); err != nil {
		return fmt.Errorf("failed to save access token: %w", err)
	}
	cmd.Printf("Store configured: %s.myshopify.com\n\n", shopName)

	cmd.Println("Step 2: LLM Provider")
	cmd.Println("--------------------")
	providers := []domain.AIProvider{
		domain.AIProviderOpenAI,
		domain.AIProviderAnthropic,
		domain.AIProviderOllama,
	}
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p)
	}
	cmd.Print("\nEnter choice [1]: ")
	input := readLine(reader)
	idx := parseChoice(input, len(providers), 1)
	provider := providers[idx-1]

	cmd.Print("API key (leave empty to use the environment variable): ")
	apiKey := readPassword()
	cmd.Println()

	if err := configStore.Set(file.KeyLLMProvider, string(provider)); err != nil {
		return fmt.Errorf("failed to save provider: %w", err)
	}
	if apiKey != "" {
		if err := configStore.Set(file.KeyLLMAPIKey, apiKey); err != nil {
			return fmt.Errorf("failed to save API key: %w", err)
		}
	}
	cmd.Printf("LLM provider configured: %s\n\n", provider)

	cmd.Println("Configuration Complete!")
	cmd.Println("Run 'shopassist serve' to start the assistant.")
	return nil
}

// ensureConfigStore opens the config store without requiring store
// credentials, so settings commands work before first setup.
func ensureConfigStore() error {
	if configStore != nil {
		return nil
	}
	store, err := file.NewConfigStore(configDir)
	if err != nil {
		return fmt.Errorf("open config store: %w", err)
	}
	configStore = store
	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

//nolint:errcheck // CLI helper, error ignored for UX
func readPassword() string {
	// Try to read password without echo
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(password)
		}
	}
	// Fallback to regular input
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func valueOrUnset(value string) string {
	if value == "" {
		return "(not set)"
	}
	return value
}

func configuredStatus(configured bool) string {
	if configured {
		return "configured"
	}
	return "not configured"
}

func maskSecret(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
