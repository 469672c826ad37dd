package questiongen

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/abhisek/brainmaxx/internal/llm"
	"github.com/abhisek/brainmaxx/internal/quiz"
	"github.com/google/uuid"
)

// Generator produces one multiple-choice question per call.
type Generator interface {
	Generate(ctx context.Context, input GenerateInput) (*quiz.Question, error)
}

// GenerateInput names what to generate.
type GenerateInput struct {
	Subject    string
	Difficulty quiz.Difficulty

	// CustomPrompt, when set, replaces the default system instruction. The
	// reply format is still enforced.
	CustomPrompt string
}

// Config controls the behavior of the LLMGenerator.
type Config struct {
	MaxTokens   int
	Temperature float64

	// Timeout bounds each request. Zero means no bound beyond ctx.
	Timeout time.Duration

	// JSONMode asks the backend for a bare JSON object where supported.
	JSONMode bool
}

// DefaultConfig returns the generator defaults.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   1024,
		Temperature: 0.7,
		Timeout:     30 * time.Second,
		JSONMode:    true,
	}
}

// ConfigFrom takes request settings from the provider configuration.
func ConfigFrom(cfg llm.Config) Config {
	out := DefaultConfig()
	if cfg.MaxTokens > 0 {
		out.MaxTokens = cfg.MaxTokens
	}
	out.Temperature = cfg.Temperature
	if cfg.Timeout > 0 {
		out.Timeout = cfg.Timeout
	}
	return out
}

// LLMGenerator implements Generator on an llm.Provider.
type LLMGenerator struct {
	provider   llm.Provider
	credential string
	config     Config
	newID      func() string
}

// New creates a generator. credential is checked on every call before
// anything is sent.
func New(provider llm.Provider, credential string, cfg Config) *LLMGenerator {
	return &LLMGenerator{
		provider:   provider,
		credential: credential,
		config:     cfg,
		newID:      uuid.NewString,
	}
}

// Generate requests one question and converts the reply into a quiz.Question.
func (g *LLMGenerator) Generate(ctx context.Context, input GenerateInput) (*quiz.Question, error) {
	if err := CheckCredential(g.credential); err != nil {
		return nil, err
	}

	if llm.PurposeFrom(ctx) == "unknown" {
		ctx = llm.WithPurpose(ctx, llm.PurposeQuestion)
	}
	if g.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.config.Timeout)
		defer cancel()
	}

	req := llm.Request{
		System: buildSystemPrompt(input),
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: userPrompt},
		},
		JSON:        g.config.JSONMode,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return nil, classify(err)
	}
	if len(resp.Content) == 0 {
		return nil, parsingErrorf("no result")
	}

	reply, err := ParseReply(string(resp.Content))
	if err != nil {
		return nil, err
	}

	return &quiz.Question{
		ID:         g.newID(),
		Type:       quiz.TypeMultipleChoice,
		Subject:    strings.ToLower(input.Subject),
		Topic:      quiz.GeneratedTopic,
		Skill:      quiz.GeneratedTopic,
		Difficulty: input.Difficulty,
		Content: quiz.Content{
			Text:           reply.Question,
			Options:        reply.Options,
			CorrectAnswers: []string{reply.Answer()},
		},
		Explanation: quiz.Explanation{Text: reply.Explanation},
		Images:      []string{},
	}, nil
}

// classify maps provider errors onto the generator's error kinds.
func classify(err error) error {
	var status *llm.ErrStatus
	if errors.As(err, &status) {
		return &NetworkError{Status: status.Code, Detail: status.Body, Err: err}
	}

	var invalid *llm.ErrInvalidResponse
	if errors.As(err, &invalid) {
		return &ParsingError{Reason: "no result", Err: err}
	}

	var truncated *llm.ErrMaxTokensExceeded
	if errors.As(err, &truncated) {
		return &ParsingError{Reason: "reply was truncated", Err: err}
	}

	return &NetworkError{Detail: err.Error(), Err: err}
}
