package file

import (
	"os"
	"strconv"

	"github.com/shopassist-labs/shopassist/internal/core/domain"
	"github.com/shopassist-labs/shopassist/internal/core/ports/driven"
)

// Config keys, dot-flattened from the TOML tables.
const (
	KeyShopName        = "shopify.shop_name"
	KeyAccessToken     = "shopify.access_token"
	KeyShopifyAPIKey   = "shopify.api_key"
	KeyShopifyPassword = "shopify.password"

	KeyLLMProvider = "llm.provider"
	KeyLLMAPIKey   = "llm.api_key"
	KeyLLMBaseURL  = "llm.base_url"
	KeyLLMModel    = "llm.model"

	KeyServerPort        = "server.port"
	KeyQueryMarker       = "server.query_marker"
	KeyReservedTagPrefix = "server.reserved_tag_prefix"
)

// Environment variables override the config file.
const (
	EnvShopName        = "SHOP_NAME"
	EnvAccessToken     = "ACCESS_TOKEN"
	EnvShopifyAPIKey   = "API_KEY"
	EnvShopifyPassword = "PASSWORD"
	EnvOpenAIAPIKey    = "OPENAI_API_KEY"
	EnvAnthropicAPIKey = "ANTHROPIC_API_KEY"
	EnvPort            = "PORT"
)

// DefaultPort is the HTTP listen port when none is configured.
const DefaultPort = 8080

// LoadSettings builds runtime settings from the config store, with
// environment variables taking precedence over file values.
func LoadSettings(store driven.ConfigStore) *domain.Settings {
	settings := &domain.Settings{
		Shopify: domain.ShopifySettings{
			ShopName:    stringOr(store.GetString(KeyShopName), os.Getenv(EnvShopName)),
			AccessToken: stringOr(store.GetString(KeyAccessToken), os.Getenv(EnvAccessToken)),
			APIKey:      stringOr(store.GetString(KeyShopifyAPIKey), os.Getenv(EnvShopifyAPIKey)),
			Password:    stringOr(store.GetString(KeyShopifyPassword), os.Getenv(EnvShopifyPassword)),
		},
		LLM: domain.LLMSettings{
			Provider: domain.AIProvider(store.GetString(KeyLLMProvider)),
			APIKey:   store.GetString(KeyLLMAPIKey),
			BaseURL:  store.GetString(KeyLLMBaseURL),
			Model:    store.GetString(KeyLLMModel),
		},
		Server: domain.ServerSettings{
			Port:              store.GetInt(KeyServerPort),
			QueryMarker:       store.GetString(KeyQueryMarker),
			ReservedTagPrefix: store.GetString(KeyReservedTagPrefix),
		},
	}

	// Provider API keys from the environment fill in an unconfigured LLM
	// section. An explicit provider keeps its configured key.
	if settings.LLM.APIKey == "" {
		switch settings.LLM.Provider {
		case domain.AIProviderOpenAI:
			settings.LLM.APIKey = os.Getenv(EnvOpenAIAPIKey)
		case domain.AIProviderAnthropic:
			settings.LLM.APIKey = os.Getenv(EnvAnthropicAPIKey)
		case "":
			if key := os.Getenv(EnvOpenAIAPIKey); key != "" {
				settings.LLM.Provider = domain.AIProviderOpenAI
				settings.LLM.APIKey = key
			} else if key := os.Getenv(EnvAnthropicAPIKey); key != "" {
				settings.LLM.Provider = domain.AIProviderAnthropic
				settings.LLM.APIKey = key
			}
		}
	}

	if port := os.Getenv(EnvPort); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			settings.Server.Port = p
		}
	}
	if settings.Server.Port == 0 {
		settings.Server.Port = DefaultPort
	}

	return settings
}

// stringOr returns the override when set, the base otherwise.
func stringOr(base, override string) string {
	if override != "" {
		return override
	}
	return base
}
