package llm

import (
	"fmt"
	"os"
	"time"
)

// Provider names accepted in Config.Provider.
const (
	ProviderOpenAI     = "openai"
	ProviderOpenRouter = "openrouter"
	ProviderAnthropic  = "anthropic"
	ProviderGemini     = "gemini"
	ProviderMock       = "mock"
)

// Config holds all LLM provider configuration.
type Config struct {
	// Provider selects the backend: "openai", "openrouter", "anthropic",
	// "gemini" or "mock".
	Provider string

	OpenAI     OpenAIConfig
	OpenRouter OpenRouterConfig
	Anthropic  AnthropicConfig
	Gemini     GeminiConfig
	Retry      RetryConfig

	// Timeout bounds a single generation call, retries included. Default: 30s.
	Timeout time.Duration

	// Temperature and MaxTokens are applied to every request built by the
	// question generator.
	Temperature float64
	MaxTokens   int
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string
	Model   string // Default: "gpt-4-turbo-preview"
	BaseURL string // Optional. Any OpenAI-compatible endpoint.
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string
	Model   string
	BaseURL string // Default: "https://openrouter.ai/api/v1"
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey string
	Model  string // Default: "claude-haiku"
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey  string
	Model   string // Default: "gemini-flash"
	BaseURL string // Empty uses the public endpoint
}

// RetryConfig configures the optional retry decorator. MaxAttempts of 1 or
// less disables it.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// Enabled reports whether more than one attempt is configured.
func (r RetryConfig) Enabled() bool {
	return r.MaxAttempts > 1
}

// DefaultConfig returns the defaults: OpenAI chat completions with
// gpt-4-turbo-preview, temperature 0.7, a 30s timeout and no retries.
func DefaultConfig() Config {
	return Config{
		Provider: ProviderOpenAI,
		OpenAI: OpenAIConfig{
			Model: "gpt-4-turbo-preview",
		},
		OpenRouter: OpenRouterConfig{
			Model: "openai/gpt-4-turbo-preview",
		},
		Anthropic: AnthropicConfig{
			Model: "claude-haiku",
		},
		Gemini: GeminiConfig{
			Model: "gemini-flash",
		},
		Retry: RetryConfig{
			MaxAttempts: 1,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout:     30 * time.Second,
		Temperature: 0.7,
		MaxTokens:   1024,
	}
}

// APIKey returns the credential of the selected provider.
func (c Config) APIKey() string {
	switch c.Provider {
	case ProviderOpenAI:
		return c.OpenAI.APIKey
	case ProviderOpenRouter:
		return c.OpenRouter.APIKey
	case ProviderAnthropic:
		return c.Anthropic.APIKey
	case ProviderGemini:
		return c.Gemini.APIKey
	default:
		return ""
	}
}

// DiscoverKeys fills empty provider keys from the vendors' conventional
// environment variables (OPENAI_API_KEY and friends).
func (c *Config) DiscoverKeys() {
	fill := func(dst *string, env string) {
		if *dst == "" {
			*dst = os.Getenv(env)
		}
	}
	fill(&c.OpenAI.APIKey, "OPENAI_API_KEY")
	fill(&c.OpenRouter.APIKey, "OPENROUTER_API_KEY")
	fill(&c.Anthropic.APIKey, "ANTHROPIC_API_KEY")
	fill(&c.Gemini.APIKey, "GEMINI_API_KEY")
}

// Validate checks the provider name and numeric settings. Credential
// presence is checked by the question generator so that a missing key is
// reported as a configuration error at generation time, not at startup.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderOpenAI, ProviderOpenRouter, ProviderAnthropic, ProviderGemini, ProviderMock:
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature must be within [0, 2], got %v", c.Temperature)
	}
	if c.MaxTokens < 0 {
		return fmt.Errorf("max tokens must not be negative, got %d", c.MaxTokens)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", c.Timeout)
	}
	return nil
}
