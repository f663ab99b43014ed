package llm

import "time"

// Provider constants
const (
	// DefaultProvider is the default LLM provider
	DefaultProvider = ProviderOpenAI

	// ProviderOpenAI represents the OpenAI provider
	ProviderOpenAI Provider = "openai"

	// ProviderAnthropic represents the Anthropic provider
	ProviderAnthropic Provider = "anthropic"

	// ProviderOllama represents a local Ollama server
	ProviderOllama Provider = "ollama"

	// ProviderGemini represents the Google Gemini provider
	ProviderGemini Provider = "gemini"

	// ProviderGeneric represents any OpenAI-compatible endpoint
	ProviderGeneric Provider = "generic"
)

// Default endpoints
const (
	DefaultOpenAIURL    = "https://api.openai.com/v1"
	DefaultAnthropicURL = "https://api.anthropic.com"
	DefaultOllamaURL    = "http://localhost:11434"
	DefaultGeminiURL    = "https://generativelanguage.googleapis.com"
)

// DefaultTimeout bounds a single completion request.
const DefaultTimeout = 120 * time.Second

// defaultClaudeMaxTokens is required by the Anthropic messages API.
const defaultClaudeMaxTokens = 4096

// ProviderInfo describes a supported provider.
type ProviderInfo struct {
	ID           Provider
	DisplayName  string
	DefaultModel string
	BaseURL      string
	// APIKeyEnv is the environment variable consulted when no key is configured.
	APIKeyEnv      string
	RequiresAPIKey bool
	RequiresURL    bool
}

var providerRegistry = []ProviderInfo{
	{
		ID:             ProviderOpenAI,
		DisplayName:    "OpenAI",
		DefaultModel:   "gpt-4o-mini",
		BaseURL:        DefaultOpenAIURL,
		APIKeyEnv:      "OPENAI_API_KEY",
		RequiresAPIKey: true,
	},
	{
		ID:             ProviderAnthropic,
		DisplayName:    "Anthropic",
		DefaultModel:   "claude-3-5-sonnet-latest",
		BaseURL:        DefaultAnthropicURL,
		APIKeyEnv:      "ANTHROPIC_API_KEY",
		RequiresAPIKey: true,
	},
	{
		ID:           ProviderOllama,
		DisplayName:  "Ollama (local)",
		DefaultModel: "llama3.2",
		BaseURL:      DefaultOllamaURL,
	},
	{
		ID:             ProviderGemini,
		DisplayName:    "Google Gemini",
		DefaultModel:   "gemini-2.0-flash",
		BaseURL:        DefaultGeminiURL,
		APIKeyEnv:      "GEMINI_API_KEY",
		RequiresAPIKey: true,
	},
	{
		ID:           ProviderGeneric,
		DisplayName:  "OpenAI-compatible endpoint",
		DefaultModel: "gpt-4o-mini",
		APIKeyEnv:    "OPENAI_API_KEY",
		RequiresURL:  true,
	},
}

// GetProviders returns every supported provider in display order.
func GetProviders() []ProviderInfo {
	out := make([]ProviderInfo, len(providerRegistry))
	copy(out, providerRegistry)
	return out
}

// GetProvider looks up a provider by id.
func GetProvider(p Provider) (ProviderInfo, bool) {
	for _, info := range providerRegistry {
		if info.ID == p {
			return info, true
		}
	}
	return ProviderInfo{}, false
}

// DefaultModelForProvider returns the default model ID for a given provider,
// or "" when the provider is unknown.
func DefaultModelForProvider(provider string) string {
	info, ok := GetProvider(Provider(provider))
	if !ok {
		return ""
	}
	return info.DefaultModel
}
