// Package llm provides a unified interface for LLM providers using CloudWeGo Eino.
package llm

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/claude"
	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino-ext/components/model/ollama"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

// Provider identifies the LLM provider to use.
type Provider string

// ErrEmptyPrompt is returned when Complete is called without a prompt.
var ErrEmptyPrompt = errors.New("prompt is required")

// Config holds configuration for creating an LLM client.
type Config struct {
	Provider Provider
	Model    string // Empty selects the provider default
	APIKey   string // Falls back to the provider's env var
	BaseURL  string // Required for generic, optional otherwise
	Timeout  time.Duration
}

// ValidateProvider checks if the given provider string is supported.
func ValidateProvider(p string) (Provider, error) {
	if _, ok := GetProvider(Provider(p)); ok {
		return Provider(p), nil
	}
	ids := make([]string, 0, len(providerRegistry))
	for _, info := range providerRegistry {
		ids = append(ids, string(info.ID))
	}
	return "", fmt.Errorf("unsupported provider: %s (supported: %s)", p, strings.Join(ids, ", "))
}

// ResolveAPIKey returns the configured key, or the provider's environment
// variable when none is configured.
func ResolveAPIKey(p Provider, configured string, getenv func(string) string) string {
	if key := strings.TrimSpace(configured); key != "" {
		return key
	}
	if getenv == nil {
		getenv = os.Getenv
	}
	info, ok := GetProvider(p)
	if !ok || info.APIKeyEnv == "" {
		return ""
	}
	return strings.TrimSpace(getenv(info.APIKeyEnv))
}

// withDefaults fills in the model, base URL and timeout from the provider
// registry.
func (cfg Config) withDefaults() Config {
	info, _ := GetProvider(cfg.Provider)
	if cfg.Model == "" {
		cfg.Model = info.DefaultModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = info.BaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return cfg
}

// NewChatModel creates a ChatModel instance based on the provider configuration.
// It returns an Eino BaseChatModel that can be used for Generate() or Stream() calls.
func NewChatModel(ctx context.Context, cfg Config) (model.BaseChatModel, error) {
	cfg = cfg.withDefaults()

	switch cfg.Provider {
	case ProviderOpenAI:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("OpenAI API key is required")
		}
		return openai.NewChatModel(ctx, &openai.ChatModelConfig{
			Model:   cfg.Model,
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Timeout: cfg.Timeout,
		})

	case ProviderGeneric:
		if cfg.BaseURL == "" {
			return nil, fmt.Errorf("a base URL is required for the generic provider")
		}
		return openai.NewChatModel(ctx, &openai.ChatModelConfig{
			Model:   cfg.Model,
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Timeout: cfg.Timeout,
		})

	case ProviderOllama:
		return ollama.NewChatModel(ctx, &ollama.ChatModelConfig{
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
			Timeout: cfg.Timeout,
		})

	case ProviderAnthropic:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("anthropic API key is required")
		}
		var baseURL *string
		if cfg.BaseURL != "" && cfg.BaseURL != DefaultAnthropicURL {
			baseURL = &cfg.BaseURL
		}
		return claude.NewChatModel(ctx, &claude.Config{
			APIKey:    cfg.APIKey,
			BaseURL:   baseURL,
			Model:     cfg.Model,
			MaxTokens: defaultClaudeMaxTokens,
		})

	case ProviderGemini:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("gemini API key is required")
		}
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  cfg.APIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, fmt.Errorf("create gemini client: %w", err)
		}
		return gemini.NewChatModel(ctx, &gemini.Config{
			Client: client,
			Model:  cfg.Model,
		})

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s (supported: openai, anthropic, ollama, gemini, generic)", cfg.Provider)
	}
}

// Request is one persona-scoped prompt.
type Request struct {
	// Persona is markdown sent as the system message. Optional.
	Persona string
	Prompt  string
}

// Client sends single-turn completions to a chat model. Requests are not
// retried.
type Client struct {
	chatModel model.BaseChatModel
	provider  Provider
	modelName string
	timeout   time.Duration
	log       *zap.Logger
}

// NewClientWithModel wraps an existing chat model.
func NewClientWithModel(chatModel model.BaseChatModel, cfg Config, log *zap.Logger) *Client {
	cfg = cfg.withDefaults()
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		chatModel: chatModel,
		provider:  cfg.Provider,
		modelName: cfg.Model,
		timeout:   cfg.Timeout,
		log:       log.Named("llm"),
	}
}

// Model returns the model name requests are sent to.
func (c *Client) Model() string { return c.modelName }

// Complete sends the request and returns the response text.
func (c *Client) Complete(ctx context.Context, req Request) (string, error) {
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return "", ErrEmptyPrompt
	}

	messages := make([]*schema.Message, 0, 2)
	if persona := strings.TrimSpace(req.Persona); persona != "" {
		messages = append(messages, schema.SystemMessage(persona))
	}
	messages = append(messages, schema.UserMessage(prompt))

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.chatModel.Generate(ctx, messages)
	if err != nil {
		c.log.Debug("completion failed", zap.String("provider", string(c.provider)), zap.Error(err))
		return "", fmt.Errorf("%s generate: %w", c.provider, err)
	}
	c.log.Debug("completion finished",
		zap.String("provider", string(c.provider)),
		zap.String("model", c.modelName),
		zap.Duration("took", time.Since(start)))

	if resp == nil {
		return "", nil
	}
	return resp.Content, nil
}
