package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/abhisek/brainmaxx/internal/llm"
	"github.com/abhisek/brainmaxx/internal/logger"
)

// EnvPrefix prefixes every environment override, e.g. BRAINMAXX_LLM_PROVIDER.
const EnvPrefix = "BRAINMAXX"

// Config is the application configuration.
type Config struct {
	LLM       llm.Config
	Storage   StorageConfig
	Selection SelectionConfig
	Log       logger.Config

	// File is the config file that was read, empty when none was found.
	File string
}

// StorageConfig locates the on-disk stores. Empty paths mean the defaults.
type StorageConfig struct {
	DBPath    string
	CachePath string
}

// SelectionConfig tunes question selection and on-demand generation.
type SelectionConfig struct {
	Target int

	// Eligible lists the subject ids that may trigger on-demand generation.
	Eligible []string

	// GeneratedEligible also allows generation for every AI-generated subject.
	GeneratedEligible bool

	// Prompt optionally replaces the default generation instruction.
	Prompt string
}

// Credential returns the key handed to the question generator. The mock
// backend needs none, so it gets a fixed stand-in.
func (c *Config) Credential() string {
	if c.LLM.Provider == llm.ProviderMock {
		return "mock"
	}
	return c.LLM.APIKey()
}

// Load reads configuration from path, or from brainmaxx.yaml in the working
// directory or $XDG_CONFIG_HOME/brainmaxx when path is empty. A missing
// default file is not an error. Environment variables override the file.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("brainmaxx")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir := configDir(); dir != "" {
			v.AddConfigPath(dir)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{
		LLM: llm.Config{
			Provider: v.GetString("llm.provider"),
			OpenAI: llm.OpenAIConfig{
				APIKey:  v.GetString("llm.openai.api_key"),
				Model:   v.GetString("llm.openai.model"),
				BaseURL: v.GetString("llm.openai.base_url"),
			},
			OpenRouter: llm.OpenRouterConfig{
				APIKey:  v.GetString("llm.openrouter.api_key"),
				Model:   v.GetString("llm.openrouter.model"),
				BaseURL: v.GetString("llm.openrouter.base_url"),
			},
			Anthropic: llm.AnthropicConfig{
				APIKey: v.GetString("llm.anthropic.api_key"),
				Model:  v.GetString("llm.anthropic.model"),
			},
			Gemini: llm.GeminiConfig{
				APIKey:  v.GetString("llm.gemini.api_key"),
				Model:   v.GetString("llm.gemini.model"),
				BaseURL: v.GetString("llm.gemini.base_url"),
			},
			Retry: llm.RetryConfig{
				MaxAttempts: v.GetInt("llm.retry.max_attempts"),
				InitialWait: v.GetDuration("llm.retry.initial_wait"),
				MaxWait:     v.GetDuration("llm.retry.max_wait"),
				Multiplier:  v.GetFloat64("llm.retry.multiplier"),
			},
			Timeout:     v.GetDuration("llm.timeout"),
			Temperature: v.GetFloat64("llm.temperature"),
			MaxTokens:   v.GetInt("llm.max_tokens"),
		},
		Storage: StorageConfig{
			DBPath:    v.GetString("storage.db_path"),
			CachePath: v.GetString("storage.cache_path"),
		},
		Selection: SelectionConfig{
			Target:            v.GetInt("selection.target"),
			Eligible:          v.GetStringSlice("selection.eligible"),
			GeneratedEligible: v.GetBool("selection.generated_eligible"),
			Prompt:            v.GetString("selection.prompt"),
		},
		Log: logger.Config{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
		File: v.ConfigFileUsed(),
	}

	cfg.LLM.DiscoverKeys()

	if err := cfg.LLM.Validate(); err != nil {
		return nil, fmt.Errorf("llm: %w", err)
	}
	if cfg.Selection.Target <= 0 {
		return nil, fmt.Errorf("selection.target must be positive, got %d", cfg.Selection.Target)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := llm.DefaultConfig()

	v.SetDefault("llm.provider", d.Provider)
	v.SetDefault("llm.openai.api_key", "")
	v.SetDefault("llm.openai.model", d.OpenAI.Model)
	v.SetDefault("llm.openai.base_url", "")
	v.SetDefault("llm.openrouter.api_key", "")
	v.SetDefault("llm.openrouter.model", d.OpenRouter.Model)
	v.SetDefault("llm.openrouter.base_url", "")
	v.SetDefault("llm.anthropic.api_key", "")
	v.SetDefault("llm.anthropic.model", d.Anthropic.Model)
	v.SetDefault("llm.gemini.api_key", "")
	v.SetDefault("llm.gemini.model", d.Gemini.Model)
	v.SetDefault("llm.gemini.base_url", "")
	v.SetDefault("llm.retry.max_attempts", d.Retry.MaxAttempts)
	v.SetDefault("llm.retry.initial_wait", d.Retry.InitialWait)
	v.SetDefault("llm.retry.max_wait", d.Retry.MaxWait)
	v.SetDefault("llm.retry.multiplier", d.Retry.Multiplier)
	v.SetDefault("llm.timeout", d.Timeout)
	v.SetDefault("llm.temperature", d.Temperature)
	v.SetDefault("llm.max_tokens", d.MaxTokens)

	v.SetDefault("storage.db_path", "")
	v.SetDefault("storage.cache_path", "")

	v.SetDefault("selection.target", 10)
	v.SetDefault("selection.eligible", []string{"english", "ai"})
	v.SetDefault("selection.generated_eligible", false)
	v.SetDefault("selection.prompt", "")

	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "console")
}

// FileName is the config file name searched for when no path is given.
const FileName = "brainmaxx.yaml"

// DefaultPath is where `brainmaxx config init` writes the starter file.
func DefaultPath() string {
	dir := configDir()
	if dir == "" {
		return FileName
	}
	return filepath.Join(dir, FileName)
}

func configDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "brainmaxx")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "brainmaxx")
}

// Example is a commented starter file written by `brainmaxx config init`.
const Example = `# brainmaxx configuration
llm:
  provider: openai
  openai:
    api_key: YOUR_API_KEY_HERE
    model: gpt-4-turbo-preview
  temperature: 0.7
  max_tokens: 1024
  timeout: 30s
  retry:
    max_attempts: 1

storage:
  db_path: ""
  cache_path: ""

selection:
  target: 10
  eligible: [english, ai]
  generated_eligible: false

log:
  level: warn
  format: console
`
