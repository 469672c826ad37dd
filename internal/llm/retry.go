package llm

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"
)

// RetryProvider retries transient failures with exponential backoff and
// jitter. It is only installed when RetryConfig.Enabled.
type RetryProvider struct {
	inner  Provider
	config RetryConfig
	log    *zap.Logger
}

// WithRetry wraps a Provider with retry logic. Each retry is logged at
// warn level when logger is non-nil.
func WithRetry(p Provider, cfg RetryConfig, logger *zap.Logger) Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RetryProvider{inner: p, config: cfg, log: logger.Named("llm")}
}

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	attempts := max(r.config.MaxAttempts, 1)
	invalid := 0

	for attempt := 1; ; attempt++ {
		resp, err := r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}

		var inv *ErrInvalidResponse
		if errors.As(err, &inv) {
			invalid++
		}
		if attempt >= attempts || !retryable(err, invalid) {
			return nil, err
		}

		wait := r.delay(attempt, err)
		r.log.Warn("retrying generation request",
			zap.String("purpose", PurposeFrom(ctx)),
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait),
			zap.Error(err))

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

func (r *RetryProvider) ModelID() string {
	return r.inner.ModelID()
}

// retryable reports whether err may heal on another attempt. An empty or
// blocked reply gets one more try; invalid counts those seen so far.
func retryable(err error, invalid int) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var (
		truncated *ErrMaxTokensExceeded
		inv       *ErrInvalidResponse
		limited   *ErrRateLimit
		down      *ErrProviderUnavailable
		status    *ErrStatus
	)
	switch {
	case errors.As(err, &truncated):
		return false
	case errors.As(err, &inv):
		return invalid <= 1
	case errors.As(err, &limited), errors.As(err, &down):
		return true
	case errors.As(err, &status):
		// Bad key or bad request will not heal.
		return status.Code >= 500
	default:
		return true
	}
}

// delay is the wait before the next attempt: the server's Retry-After when
// given, else InitialWait·Multiplier^(attempt-1) capped at MaxWait, ±20%.
func (r *RetryProvider) delay(attempt int, err error) time.Duration {
	var limited *ErrRateLimit
	if errors.As(err, &limited) && limited.RetryAfter > 0 {
		return limited.RetryAfter
	}

	wait := float64(r.config.InitialWait) * math.Pow(r.config.Multiplier, float64(attempt-1))
	wait = math.Min(wait, float64(r.config.MaxWait))
	wait *= 1 + 0.2*(2*rand.Float64()-1)
	return time.Duration(max(wait, 0))
}
