package llm

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func questionRequest() Request {
	return Request{
		System:   "You write SAT questions.",
		Messages: []Message{{Role: RoleUser, Content: "Generate a question."}},
		JSON:     true,
	}
}

func TestMockProvider_Queue(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"question":"first"}`), Usage: Usage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}},
		MockText(`{"question":"second"}`),
		MockResponse{Err: &ErrRateLimit{}},
	)
	ctx := context.Background()

	first, err := mock.Generate(ctx, questionRequest())
	require.NoError(t, err)
	assert.Equal(t, `{"question":"first"}`, string(first.Content))
	assert.Equal(t, 10, first.Usage.InputTokens)
	assert.Equal(t, "end", first.StopReason)

	second, err := mock.Generate(ctx, questionRequest())
	require.NoError(t, err)
	assert.Equal(t, `{"question":"second"}`, string(second.Content))

	_, err = mock.Generate(ctx, questionRequest())
	var limited *ErrRateLimit
	assert.ErrorAs(t, err, &limited)

	_, err = mock.Generate(ctx, questionRequest())
	var down *ErrProviderUnavailable
	assert.ErrorAs(t, err, &down, "an exhausted queue fails")

	assert.Equal(t, 4, mock.CallCount())
	assert.Equal(t, "You write SAT questions.", mock.Calls[0].System)
	assert.True(t, mock.Calls[0].JSON)
	assert.Equal(t, "mock", mock.ModelID())
}

func TestMockProvider_AddResponse(t *testing.T) {
	mock := NewMockProvider()
	mock.AddResponse(MockText(`{}`))

	resp, err := mock.Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(resp.Content))
}

func TestPurposeContext(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, "unknown", PurposeFrom(ctx))
	assert.Equal(t, PurposeQuestion, PurposeFrom(WithPurpose(ctx, PurposeQuestion)))
	assert.Equal(t, PurposeCurriculum, PurposeFrom(WithPurpose(ctx, PurposeCurriculum)))
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"defaults", DefaultConfig(), false},
		{"missing key is reported at generation time", Config{Provider: ProviderAnthropic}, false},
		{"offline needs no key", Config{Provider: ProviderMock}, false},
		{"unknown provider", Config{Provider: "unknown"}, true},
		{"temperature out of range", Config{Provider: ProviderOpenAI, Temperature: 3}, true},
		{"negative max tokens", Config{Provider: ProviderOpenAI, MaxTokens: -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_APIKey(t *testing.T) {
	cfg := DefaultConfig()
	cfg.OpenAI.APIKey = "sk-openai"
	cfg.Gemini.APIKey = "g-key"

	assert.Equal(t, "sk-openai", cfg.APIKey())
	cfg.Provider = ProviderGemini
	assert.Equal(t, "g-key", cfg.APIKey())
	cfg.Provider = ProviderMock
	assert.Empty(t, cfg.APIKey())
}

func TestConfig_DiscoverKeys(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-env")
	t.Setenv("ANTHROPIC_API_KEY", "")

	cfg := DefaultConfig()
	cfg.Anthropic.APIKey = "from-file"
	cfg.DiscoverKeys()

	assert.Equal(t, "sk-env", cfg.OpenAI.APIKey)
	assert.Equal(t, "from-file", cfg.Anthropic.APIKey, "an explicit key wins over the environment")
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.False(t, cfg.Retry.Enabled(), "retries are opt-in")
	assert.Equal(t, float64(30), cfg.Timeout.Seconds())
	assert.InDelta(t, 0.7, cfg.Temperature, 0.0001)
}

func TestNewProvider(t *testing.T) {
	t.Run("missing key fails at generation time", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.OpenAI.APIKey = ""

		p, err := NewProvider(context.Background(), cfg, nil, nil)
		require.NoError(t, err)
		_, err = p.Generate(context.Background(), questionRequest())
		var down *ErrProviderUnavailable
		assert.ErrorAs(t, err, &down)
	})

	t.Run("offline provider with retry", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Provider = ProviderMock
		cfg.Retry.MaxAttempts = 3

		p, err := NewProvider(context.Background(), cfg, nil, nil)
		require.NoError(t, err)
		assert.IsType(t, &RetryProvider{}, p)
		assert.Equal(t, "mock", p.ModelID())

		resp, err := p.Generate(context.Background(), questionRequest())
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Content)
	})

	t.Run("unknown provider", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Provider = "nope"
		cfg.OpenAI.APIKey = "x"

		_, err := NewProvider(context.Background(), cfg, nil, nil)
		assert.Error(t, err)
	})
}

func TestComplete(t *testing.T) {
	resp, err := complete(&Response{Content: json.RawMessage(`{"question":"q"}`), StopReason: "end"})
	require.NoError(t, err)
	assert.NotNil(t, resp)

	_, err = complete(&Response{Content: json.RawMessage(`{"question":"Which of`), StopReason: StopMaxTokens})
	var truncated *ErrMaxTokensExceeded
	require.ErrorAs(t, err, &truncated)
	assert.Equal(t, `{"question":"Which of`, string(truncated.Content))
}
