package corpus

import (
	"context"
	"errors"

	"github.com/abhisek/brainmaxx/internal/quiz"
	"github.com/abhisek/brainmaxx/internal/store"
)

// GeneratedRecordKey is the record holding generated subjects.
const GeneratedRecordKey = "ai_subjects"

// readGenerated returns the generated-subjects record. A missing record is
// an empty list.
func readGenerated(ctx context.Context, records store.RecordRepo) ([]quiz.Subject, error) {
	if records == nil {
		return nil, nil
	}
	data, err := records.Get(ctx, GeneratedRecordKey)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, &PersistenceError{Op: "read", Target: GeneratedRecordKey, Err: err}
	}
	subjects, err := decodeSubjects(data)
	if err != nil {
		return nil, &PersistenceError{Op: "decode", Target: GeneratedRecordKey, Err: err}
	}
	return subjects, nil
}

func writeGenerated(ctx context.Context, records store.RecordRepo, subjects []quiz.Subject) error {
	if records == nil {
		return nil
	}
	data, err := encodeSubjects(subjects)
	if err != nil {
		return &PersistenceError{Op: "encode", Target: GeneratedRecordKey, Err: err}
	}
	if err := records.Put(ctx, GeneratedRecordKey, data); err != nil {
		return &PersistenceError{Op: "write", Target: GeneratedRecordKey, Err: err}
	}
	return nil
}

// generatedOnly returns the subjects in the generated namespace.
func generatedOnly(subjects []quiz.Subject) []quiz.Subject {
	var out []quiz.Subject
	for _, s := range subjects {
		if s.IsGenerated() {
			out = append(out, s)
		}
	}
	return out
}

// withoutID returns subjects minus any entry with the given id.
func withoutID(subjects []quiz.Subject, id string) []quiz.Subject {
	out := make([]quiz.Subject, 0, len(subjects))
	for _, s := range subjects {
		if s.ID != id {
			out = append(out, s)
		}
	}
	return out
}

// merge overlays extra onto base by id, appending subjects base lacks.
func merge(base, extra []quiz.Subject) []quiz.Subject {
	out := append([]quiz.Subject(nil), base...)
	for _, s := range extra {
		replaced := false
		for i := range out {
			if out[i].ID == s.ID {
				out[i] = s
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, s)
		}
	}
	return out
}
