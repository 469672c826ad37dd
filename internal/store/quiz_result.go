package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

type quizResultRepo struct {
	s *Store
}

func (r *quizResultRepo) SaveResult(ctx context.Context, rec ResultRecord) error {
	completed := rec.CompletedAt
	if completed.IsZero() {
		completed = r.s.now()
	}

	q := r.s.builder().Insert(quizResultsTable).
		Columns("subject_id", "subject_name", "difficulty", "score", "total_questions",
			"total_points", "percentage", "grade", "completed_at").
		Values(rec.SubjectID, rec.SubjectName, rec.Difficulty, rec.Score, rec.TotalQuestions,
			rec.TotalPoints, rec.Percentage, rec.Grade, completed.UnixMilli())
	if _, err := r.s.exec(ctx, q); err != nil {
		return fmt.Errorf("save quiz result: %w", err)
	}
	return nil
}

func (r *quizResultRepo) RecentResults(ctx context.Context, limit int) ([]ResultRecord, error) {
	q := r.s.builder().Select(
		"id", "subject_id", "subject_name", "difficulty", "score", "total_questions",
		"total_points", "percentage", "grade", "completed_at",
	).
		From(entsql.Table(quizResultsTable)).
		OrderBy(entsql.Desc("completed_at"), entsql.Desc("id"))
	if limit > 0 {
		q.Limit(limit)
	}

	var out []ResultRecord
	err := r.s.query(ctx, q, func(rows *entsql.Rows) error {
		for rows.Next() {
			var (
				rec ResultRecord
				ts  int64
			)
			if err := rows.Scan(&rec.ID, &rec.SubjectID, &rec.SubjectName, &rec.Difficulty, &rec.Score,
				&rec.TotalQuestions, &rec.TotalPoints, &rec.Percentage, &rec.Grade, &ts); err != nil {
				return err
			}
			rec.CompletedAt = time.UnixMilli(ts)
			out = append(out, rec)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("recent quiz results: %w", err)
	}
	return out, nil
}
