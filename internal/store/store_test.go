package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
		{"busy_timeout", "5000"},
	}

	for _, tt := range tests {
		var got string
		if err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got); err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestAutoMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)

	for _, table := range []string{recordsTable, llmEventsTable, quizResultsTable} {
		var name string
		err := s.DB().QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Fatalf("table %s: %v", table, err)
		}
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")
	ctx := context.Background()

	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.RecordRepo().Put(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("put: %v", err)
	}
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	got, err := s.RecordRepo().Get(ctx, "k")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != "v" {
		t.Fatalf("value = %q, want %q", got, "v")
	}
}

func TestRecordRepo(t *testing.T) {
	s := openTestStore(t)
	repo := s.RecordRepo()
	ctx := context.Background()

	if _, err := repo.Get(ctx, "ai_subjects"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := repo.Put(ctx, "ai_subjects", []byte(`[]`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := repo.Put(ctx, "ai_subjects", []byte(`[{"id":"ai-x"}]`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	got, err := repo.Get(ctx, "ai_subjects")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != `[{"id":"ai-x"}]` {
		t.Fatalf("value = %s", got)
	}

	if err := repo.Delete(ctx, "ai_subjects"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.Delete(ctx, "ai_subjects"); err != nil {
		t.Fatalf("delete missing: %v", err)
	}
	if _, err := repo.Get(ctx, "ai_subjects"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestLLMEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []LLMRequestEventData{
		{Provider: "openai", Model: "gpt-4o", Purpose: "question", InputTokens: 100, OutputTokens: 50, LatencyMs: 200, Success: true, RequestBody: "[user]\nhi", ResponseBody: `{"question":"q"}`},
		{Provider: "openai", Model: "gpt-4o", Purpose: "question", InputTokens: 120, OutputTokens: 60, LatencyMs: 400, Success: false, ErrorMessage: "HTTP 401"},
		{Provider: "openai", Model: "gpt-4o-mini", Purpose: "curriculum", InputTokens: 10, OutputTokens: 5, LatencyMs: 100, Success: true},
	}
	for _, e := range events {
		if err := repo.AppendLLMRequest(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	all, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d events, want 3", len(all))
	}
	if all[0].Purpose != "curriculum" {
		t.Errorf("expected newest first, got purpose %q", all[0].Purpose)
	}

	limited, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 1, Purpose: "question"})
	if err != nil {
		t.Fatalf("query limited: %v", err)
	}
	if len(limited) != 1 || limited[0].ErrorMessage != "HTTP 401" {
		t.Fatalf("unexpected limited result: %+v", limited)
	}

	first, err := repo.GetLLMEvent(ctx, all[2].ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if first == nil || !first.Success || first.ResponseBody != `{"question":"q"}` {
		t.Fatalf("unexpected event: %+v", first)
	}
	if time.Since(first.Timestamp) > time.Minute {
		t.Errorf("timestamp not recent: %v", first.Timestamp)
	}

	missing, err := repo.GetLLMEvent(ctx, 9999)
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Fatal("expected nil for missing event")
	}

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	if err != nil {
		t.Fatalf("usage by purpose: %v", err)
	}
	if len(byPurpose) != 2 {
		t.Fatalf("got %d purposes, want 2", len(byPurpose))
	}
	q := byPurpose[1]
	if q.Purpose != "question" || q.Calls != 2 || q.InputTokens != 220 || q.OutputTokens != 110 || q.AvgLatencyMs != 300 {
		t.Errorf("unexpected question usage: %+v", q)
	}

	byModel, err := repo.LLMUsageByModel(ctx)
	if err != nil {
		t.Fatalf("usage by model: %v", err)
	}
	if len(byModel) != 2 || byModel[0].Model != "gpt-4o" || byModel[0].Calls != 2 {
		t.Errorf("unexpected model usage: %+v", byModel)
	}
}

func TestQuizResults(t *testing.T) {
	s := openTestStore(t)
	repo := s.QuizResultRepo()
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	for i, grade := range []string{"C", "B", "A"} {
		err := repo.SaveResult(ctx, ResultRecord{
			SubjectID:      "math",
			SubjectName:    "SAT Math",
			Difficulty:     "medium",
			Score:          7 + i,
			TotalQuestions: 10,
			TotalPoints:    (7 + i) * 20,
			Percentage:     float64(70 + 10*i),
			Grade:          grade,
			CompletedAt:    base.Add(time.Duration(i) * time.Hour),
		})
		if err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}

	recent, err := repo.RecentResults(ctx, 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("got %d results, want 2", len(recent))
	}
	if recent[0].Grade != "A" || recent[1].Grade != "B" {
		t.Errorf("expected newest first, got %s then %s", recent[0].Grade, recent[1].Grade)
	}
	if !recent[0].CompletedAt.Equal(base.Add(2 * time.Hour)) {
		t.Errorf("completed_at = %v", recent[0].CompletedAt)
	}
	if recent[0].Percentage != 90 {
		t.Errorf("percentage = %v, want 90", recent[0].Percentage)
	}
}

func TestDefaultDBPath(t *testing.T) {
	dir := t.TempDir()

	t.Setenv("BRAINMAXX_DB", "")
	t.Setenv("XDG_DATA_HOME", dir)
	got, err := DefaultDBPath()
	if err != nil {
		t.Fatalf("default path: %v", err)
	}
	if want := filepath.Join(dir, "brainmaxx", "brainmaxx.db"); got != want {
		t.Errorf("path = %q, want %q", got, want)
	}

	override := filepath.Join(dir, "custom", "x.db")
	t.Setenv("BRAINMAXX_DB", override)
	got, err = DefaultDBPath()
	if err != nil {
		t.Fatalf("override path: %v", err)
	}
	if got != override {
		t.Errorf("path = %q, want %q", got, override)
	}
}

func TestOpenInMemory_RoundTripsEveryTable(t *testing.T) {
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open in-memory store: %v", err)
	}
	defer s.Close()
	ctx := context.Background()

	if err := s.RecordRepo().Put(ctx, "ai_subjects", []byte(`[]`)); err != nil {
		t.Fatalf("put record: %v", err)
	}
	got, err := s.RecordRepo().Get(ctx, "ai_subjects")
	if err != nil || string(got) != `[]` {
		t.Fatalf("get record = %q, %v", got, err)
	}

	if err := s.EventRepo().AppendLLMRequest(ctx, LLMRequestEventData{Provider: "openai", Purpose: "question", Success: true}); err != nil {
		t.Fatalf("append event: %v", err)
	}
	events, err := s.EventRepo().QueryLLMEvents(ctx, QueryOpts{})
	if err != nil || len(events) != 1 || events[0].Provider != "openai" {
		t.Fatalf("query events = %+v, %v", events, err)
	}

	if err := s.QuizResultRepo().SaveResult(ctx, ResultRecord{SubjectID: "english", Difficulty: "H", Score: 3, TotalQuestions: 5, Grade: "D"}); err != nil {
		t.Fatalf("save result: %v", err)
	}
	results, err := s.QuizResultRepo().RecentResults(ctx, 10)
	if err != nil || len(results) != 1 || results[0].SubjectID != "english" {
		t.Fatalf("recent results = %+v, %v", results, err)
	}
}
