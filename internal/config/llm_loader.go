package config

import (
	"os"
	"strings"
	"time"

	"github.com/josephgoksu/flowkit/internal/llm"
	"github.com/josephgoksu/flowkit/types"
)

// LLMOverrides carries per-invocation flag values. Empty fields keep the
// configured value.
type LLMOverrides struct {
	Provider string
	Model    string
	BaseURL  string
}

// LoadLLMConfig merges configuration, flag overrides and provider env vars.
// Precedence: flags > config (file or FLOWKIT_ env) > provider env var > defaults.
// A missing API key is not an error here; NewChatModel reports it.
func LoadLLMConfig(cfg *types.AppConfig, o LLMOverrides, getenv func(string) string) (llm.Config, error) {
	if getenv == nil {
		getenv = os.Getenv
	}

	provider := firstNonEmpty(o.Provider, cfg.LLM.Provider, string(llm.DefaultProvider))
	llmProvider, err := llm.ValidateProvider(strings.ToLower(provider))
	if err != nil {
		return llm.Config{}, err
	}

	// A model configured for another provider is not carried over.
	model := o.Model
	if model == "" && (o.Provider == "" || o.Provider == cfg.LLM.Provider) {
		model = cfg.LLM.Model
	}
	if model == "" {
		model = llm.DefaultModelForProvider(string(llmProvider))
	}

	timeout := time.Duration(cfg.LLM.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = DefaultLLMTimeoutSeconds * time.Second
	}

	return llm.Config{
		Provider: llmProvider,
		Model:    model,
		APIKey:   llm.ResolveAPIKey(llmProvider, cfg.LLM.APIKey, getenv),
		BaseURL:  firstNonEmpty(o.BaseURL, cfg.LLM.BaseURL),
		Timeout:  timeout,
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
