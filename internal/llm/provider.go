package llm

import (
	"context"
	"encoding/json"
)

// Provider sends one completion request to a text-generation backend.
type Provider interface {
	// Generate runs a single chat completion. Implementations never retry;
	// wrap with WithRetry when the caller wants that.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier requests are sent to.
	ModelID() string
}

// Request describes what to send to the backend.
type Request struct {
	// System sets the model's role and output contract.
	System string

	// Messages is the conversation. Question generation sends a single user turn.
	Messages []Message

	// JSON asks the backend for a bare JSON object reply where it supports
	// a native switch for it. The content is still parsed by the caller.
	JSON bool

	MaxTokens   int
	Temperature float64
}

// Message is a single conversation turn.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Response holds the backend's output.
type Response struct {
	// Content is the text of the first choice, verbatim.
	Content json.RawMessage

	Usage Usage

	// Model is the model that actually served the request.
	Model string

	// StopReason is normalized to "end" or "max_tokens".
	StopReason string
}

// StopMaxTokens is the normalized StopReason of a reply cut off at the
// token limit.
const StopMaxTokens = "max_tokens"

// complete rejects a reply that hit the token limit. Its content is an
// unfinished question and would only fail later as unparseable.
func complete(resp *Response) (*Response, error) {
	if resp.StopReason == StopMaxTokens {
		return nil, &ErrMaxTokensExceeded{Content: resp.Content}
	}
	return resp, nil
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
