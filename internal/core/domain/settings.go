package domain

// AIProvider identifies a completion backend.
type AIProvider string

// Supported AI providers.
const (
	AIProviderOpenAI    AIProvider = "openai"
	AIProviderAnthropic AIProvider = "anthropic"
	AIProviderOllama    AIProvider = "ollama"
)

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the backend (openai, anthropic or ollama).
	Provider AIProvider

	// APIKey authenticates against the provider. Not used by ollama.
	APIKey string

	// BaseURL overrides the provider endpoint. Optional.
	BaseURL string

	// Model overrides the provider's default model. Optional.
	Model string
}

// IsConfigured returns true if the settings are usable. Ollama runs
// locally and needs no API key.
func (s *LLMSettings) IsConfigured() bool {
	if s == nil || s.Provider == "" {
		return false
	}
	return s.APIKey != "" || s.Provider == AIProviderOllama
}

// ShopifySettings holds store credentials.
type ShopifySettings struct {
	// ShopName is the *.myshopify.com subdomain.
	ShopName string

	// AccessToken is the Admin API access token.
	AccessToken string

	// APIKey and Password form the legacy Basic auth pair. Optional.
	APIKey   string
	Password string
}

// IsConfigured returns true if the settings are usable.
func (s *ShopifySettings) IsConfigured() bool {
	return s != nil && s.ShopName != "" && s.AccessToken != ""
}

// ServerSettings holds the HTTP server configuration.
type ServerSettings struct {
	// Port is the listen port.
	Port int

	// QueryMarker is the token separating the visible reply from the
	// search query in assistant output. Empty means DefaultQueryMarker.
	QueryMarker string

	// ReservedTagPrefix hides matching tags from responses. Empty means
	// DefaultReservedTagPrefix.
	ReservedTagPrefix string
}

// Settings aggregates all runtime configuration.
type Settings struct {
	LLM     LLMSettings
	Shopify ShopifySettings
	Server  ServerSettings
}
