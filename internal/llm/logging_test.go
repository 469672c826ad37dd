package llm

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/abhisek/brainmaxx/internal/store"
)

func TestLogging_RecordsSuccessAndFailure(t *testing.T) {
	s, err := store.Open(filepath.Join(t.TempDir(), "events.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"question":"q"}`), Usage: Usage{InputTokens: 12, OutputTokens: 8}},
		MockResponse{Err: &ErrStatus{Code: 401, Body: "bad key"}},
	)
	p := WithLogging(mock, s.EventRepo())

	ctx := WithPurpose(context.Background(), PurposeQuestion)
	req := Request{System: "sys", Messages: []Message{{Role: RoleUser, Content: "go"}}, Temperature: 0.7}
	if _, err := p.Generate(ctx, req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := p.Generate(ctx, req); err == nil {
		t.Fatal("expected error")
	} else {
		var status *ErrStatus
		if !errors.As(err, &status) {
			t.Fatalf("decorator must pass the error through unchanged, got %T", err)
		}
	}

	events, err := s.EventRepo().QueryLLMEvents(context.Background(), store.QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}

	failed, ok := events[0], events[1]
	if failed.Success || !strings.Contains(failed.ErrorMessage, "HTTP 401") {
		t.Errorf("unexpected failure event: %+v", failed)
	}
	if !ok.Success || ok.InputTokens != 12 || ok.ResponseBody != `{"question":"q"}` {
		t.Errorf("unexpected success event: %+v", ok)
	}
	if ok.Purpose != PurposeQuestion {
		t.Errorf("purpose = %q, want %q", ok.Purpose, PurposeQuestion)
	}
	if !strings.Contains(ok.RequestBody, "[system]\nsys") || !strings.Contains(ok.RequestBody, "temperature=0.70") {
		t.Errorf("unexpected request body: %q", ok.RequestBody)
	}
}

func TestLookupCost(t *testing.T) {
	c := LookupCost("gpt-4-turbo-preview")
	if c == nil {
		t.Fatal("expected pricing for gpt-4-turbo-preview")
	}
	if got := c.Cost(1_000_000, 1_000_000); got != 40 {
		t.Fatalf("cost = %v, want 40", got)
	}
	if LookupCost("openai/gpt-4o-mini") == nil {
		t.Fatal("expected OpenRouter id to resolve by model part")
	}
	if LookupCost("made-up-model") != nil {
		t.Fatal("expected nil for unknown model")
	}
}
