package factory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ai-triage-be/pkg/llm"
	"ai-triage-be/pkg/llm/gemini"
	"ai-triage-be/pkg/llm/ollama"
	"ai-triage-be/pkg/llm/openai"
)

const (
	ProviderDeepSeek    = "deepseek"
	ProviderOpenAI      = "openai"
	ProviderGemini      = "gemini"
	ProviderOllama      = "ollama"
	ProviderHuggingFace = "huggingface"
)

var (
	ErrMissingAPIKey       = errors.New("api key is not configured")
	ErrMissingModel        = errors.New("model name is not configured")
	ErrUnsupportedProvider = errors.New("unsupported LLM provider")
)

type Config struct {
	Provider string
	Model    string
	BaseURL  string
	APIKey   string
	Timeout  time.Duration
}

// NewLLMProvider selects a backend by name. Missing credentials are reported
// here so misconfiguration surfaces at startup instead of on the first call.
func NewLLMProvider(ctx context.Context, cfg Config) (llm.LLMProvider, error) {
	providerType := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if cfg.Model == "" {
		return nil, fmt.Errorf("%s: %w", providerType, ErrMissingModel)
	}

	switch providerType {
	case ProviderOllama:
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434"
		}
		return ollama.NewOllamaProvider(baseURL, cfg.Model, cfg.Timeout), nil
	case ProviderDeepSeek, ProviderOpenAI, ProviderHuggingFace:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("%s: %w", providerType, ErrMissingAPIKey)
		}
		return openai.NewProvider(providerType, cfg.APIKey, baseURLFor(providerType, cfg.BaseURL), cfg.Model, cfg.Timeout), nil
	case ProviderGemini:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("%s: %w", providerType, ErrMissingAPIKey)
		}
		return gemini.NewGeminiProvider(ctx, cfg.APIKey, cfg.BaseURL, cfg.Model, cfg.Timeout)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedProvider, cfg.Provider)
	}
}

func baseURLFor(providerType, configured string) string {
	if configured != "" {
		return configured
	}
	switch providerType {
	case ProviderDeepSeek:
		return openai.DeepSeekBaseURL
	case ProviderHuggingFace:
		return openai.HuggingFaceBaseURL
	default:
		return openai.OpenAIBaseURL
	}
}
