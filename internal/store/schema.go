package store

import (
	"context"
	"fmt"
)

const (
	recordsTable     = "records"
	llmEventsTable   = "llm_request_events"
	quizResultsTable = "quiz_results"
)

// schema is applied on every Open. Columns are only ever added, never
// changed, so IF NOT EXISTS is the whole migration story.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS ` + recordsTable + ` (
		key        TEXT PRIMARY KEY,
		value      BLOB NOT NULL,
		updated_at INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS ` + llmEventsTable + ` (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp     INTEGER NOT NULL,
		provider      TEXT NOT NULL DEFAULT '',
		model         TEXT NOT NULL DEFAULT '',
		purpose       TEXT NOT NULL DEFAULT '',
		input_tokens  INTEGER NOT NULL DEFAULT 0,
		output_tokens INTEGER NOT NULL DEFAULT 0,
		latency_ms    INTEGER NOT NULL DEFAULT 0,
		success       INTEGER NOT NULL DEFAULT 0,
		error_message TEXT NOT NULL DEFAULT '',
		request_body  TEXT NOT NULL DEFAULT '',
		response_body TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS ` + quizResultsTable + ` (
		id              INTEGER PRIMARY KEY AUTOINCREMENT,
		subject_id      TEXT NOT NULL,
		subject_name    TEXT NOT NULL DEFAULT '',
		difficulty      TEXT NOT NULL,
		score           INTEGER NOT NULL,
		total_questions INTEGER NOT NULL,
		total_points    INTEGER NOT NULL,
		percentage      REAL NOT NULL,
		grade           TEXT NOT NULL,
		completed_at    INTEGER NOT NULL
	)`,
}

// migrate creates every table that does not exist yet. DDL goes straight to
// the driver; ent's builder is used for everything else.
func (s *Store) migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if err := s.drv.Exec(ctx, stmt, []any{}, nil); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	return nil
}
