package llm

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/abhisek/brainmaxx/internal/store"
)

// NewProvider builds the configured backend and wraps it with event logging
// and, when enabled, retries: caller → retry → logging → backend.
//
// A provider whose credential is missing is still returned so the question
// generator can report the missing key itself; such a provider fails every
// call with ErrProviderUnavailable.
func NewProvider(ctx context.Context, cfg Config, events store.EventRepo, logger *zap.Logger) (Provider, error) {
	base, err := newBaseProvider(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	p := base
	if events != nil {
		p = WithLogging(p, events, WithLogger(logger))
	}
	if cfg.Retry.Enabled() {
		p = WithRetry(p, cfg.Retry, logger)
	}
	return p, nil
}

func newBaseProvider(ctx context.Context, cfg Config) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Provider != ProviderMock && cfg.APIKey() == "" {
		return unconfigured{provider: cfg.Provider}, nil
	}

	switch cfg.Provider {
	case ProviderOpenAI:
		return NewOpenAIProvider(cfg.OpenAI)
	case ProviderOpenRouter:
		return NewOpenRouterProvider(cfg.OpenRouter)
	case ProviderAnthropic:
		return NewAnthropicProvider(cfg.Anthropic)
	case ProviderGemini:
		return NewGeminiProvider(ctx, cfg.Gemini)
	case ProviderMock:
		return NewOfflineProvider(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
}

// unconfigured stands in for a backend with no credential.
type unconfigured struct {
	provider string
}

func (u unconfigured) Generate(context.Context, Request) (*Response, error) {
	return nil, &ErrProviderUnavailable{Err: fmt.Errorf("%s API key is not set", u.provider)}
}

func (u unconfigured) ModelID() string {
	return u.provider + "/unconfigured"
}
