package llm

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// ErrStatus is a non-success HTTP reply. Body carries the raw error payload
// so callers can surface it unchanged.
type ErrStatus struct {
	Code int
	Body string
	Err  error
}

func (e *ErrStatus) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Code, e.Body)
}

func (e *ErrStatus) Unwrap() error { return e.Err }

// ErrRateLimit indicates the backend replied 429.
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	return fmt.Sprintf("rate limited (retry after %s): %v", e.RetryAfter, e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrInvalidResponse indicates the reply envelope had nothing usable in it.
type ErrInvalidResponse struct {
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("invalid LLM response: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrProviderUnavailable indicates the backend is down or unreachable.
type ErrProviderUnavailable struct {
	Err error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("LLM provider unavailable: %v", e.Err)
	}
	return "LLM provider unavailable"
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// ErrMaxTokensExceeded indicates the reply was cut off at MaxTokens.
type ErrMaxTokensExceeded struct {
	Content json.RawMessage
}

func (e *ErrMaxTokensExceeded) Error() string {
	return "LLM response truncated: max tokens exceeded"
}

// classifyStatus wraps a non-success status into the error type the retry
// decorator and callers key on.
func classifyStatus(code int, body string, cause error) error {
	status := &ErrStatus{Code: code, Body: body, Err: cause}
	switch {
	case code == http.StatusTooManyRequests:
		return &ErrRateLimit{Err: status}
	case code >= 500:
		return &ErrProviderUnavailable{Err: status}
	default:
		return status
	}
}
