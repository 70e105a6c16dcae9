package reasoning

import (
	"context"
	"strings"
	"time"

	"ai-triage-be/internal/pkg/apperror"
	"ai-triage-be/pkg/llm/factory"
)

// Config selects and parameterises the reasoning backend.
type Config struct {
	Provider    string
	Model       string
	BaseURL     string
	APIKey      string
	Timeout     time.Duration
	Temperature *float64
	MaxTokens   int
}

// New builds the configured Provider. A missing credential or unknown variant
// is reported as a Provider error so startup fails before any interview.
func New(ctx context.Context, cfg Config) (Provider, error) {
	name := strings.ToLower(strings.TrimSpace(cfg.Provider))

	chat, err := factory.NewLLMProvider(ctx, factory.Config{
		Provider: name,
		Model:    cfg.Model,
		BaseURL:  cfg.BaseURL,
		APIKey:   cfg.APIKey,
		Timeout:  cfg.Timeout,
	})
	if err != nil {
		return nil, apperror.Provider(name, err)
	}

	temperature := defaultTemperature
	if cfg.Temperature != nil {
		temperature = *cfg.Temperature
	}
	return NewChatReasoner(name, chat, temperature, cfg.MaxTokens), nil
}
