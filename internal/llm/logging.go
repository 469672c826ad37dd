package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/brainmaxx/internal/store"
)

// LoggingProvider records every request in the LLM event log.
type LoggingProvider struct {
	inner  Provider
	events store.EventRepo
	logger *zap.Logger
}

// LoggingOption configures WithLogging.
type LoggingOption func(*LoggingProvider)

// WithLogger sends event-log write failures to logger instead of dropping them.
func WithLogger(logger *zap.Logger) LoggingOption {
	return func(l *LoggingProvider) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithLogging wraps a Provider with event logging.
func WithLogging(p Provider, events store.EventRepo, opts ...LoggingOption) Provider {
	l := &LoggingProvider{inner: p, events: events, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)

	data := store.LLMRequestEventData{
		Provider:    l.inner.ModelID(),
		Model:       l.inner.ModelID(),
		Purpose:     PurposeFrom(ctx),
		LatencyMs:   time.Since(start).Milliseconds(),
		Success:     err == nil,
		RequestBody: serializeRequest(req),
	}
	if resp != nil {
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
		data.Model = resp.Model
		data.ResponseBody = string(resp.Content)
	}
	if err != nil {
		data.ErrorMessage = err.Error()
	}

	// The caller's request must not fail because the log write did. The
	// write uses a fresh context so a timed-out generation is still recorded.
	logCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if logErr := l.events.AppendLLMRequest(logCtx, data); logErr != nil {
		l.logger.Warn("failed to log LLM request event", zap.Error(logErr))
	}

	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}

// serializeRequest renders the request the way it is shown by `llm view`.
func serializeRequest(req Request) string {
	var b strings.Builder
	if req.System != "" {
		b.WriteString("[system]\n")
		b.WriteString(req.System)
		b.WriteString("\n\n")
	}
	for _, m := range req.Messages {
		fmt.Fprintf(&b, "[%s]\n%s\n\n", m.Role, m.Content)
	}
	fmt.Fprintf(&b, "[params] temperature=%.2f max_tokens=%d json=%t\n", req.Temperature, req.MaxTokens, req.JSON)
	return b.String()
}
