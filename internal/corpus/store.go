// Package corpus owns the set of subjects and their two persisted copies:
// the cache file holding the whole corpus and the generated-subjects
// record kept as a recovery source.
package corpus

import (
	"context"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/abhisek/brainmaxx/internal/quiz"
	"github.com/abhisek/brainmaxx/internal/store"
)

// Options configures a Store.
type Options struct {
	// CachePath is the cache file. Required.
	CachePath string

	// Records holds the generated-subjects record. Nil disables it.
	Records store.RecordRepo

	// Seed returns the bundled subjects used when the cache is unusable.
	Seed func() ([]quiz.Subject, error)

	Logger *zap.Logger
}

// Store is the single writer of the corpus. Persistence failures are
// logged; the in-memory copy stays authoritative for the process.
type Store struct {
	cachePath string
	records   store.RecordRepo
	seed      func() ([]quiz.Subject, error)
	log       *zap.Logger

	mu       sync.RWMutex
	subjects []quiz.Subject
}

// New creates a Store. Call Load before reading subjects.
func New(opts Options) *Store {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	seed := opts.Seed
	if seed == nil {
		seed = func() ([]quiz.Subject, error) { return nil, nil }
	}
	return &Store{
		cachePath: opts.CachePath,
		records:   opts.Records,
		seed:      seed,
		log:       log.Named("corpus"),
	}
}

// Load reads the cache file and returns its subjects verbatim. When the
// cache is missing or corrupt it starts from the seed subjects, overlays
// the generated-subjects record and writes the result as the new cache.
func (s *Store) Load(ctx context.Context) []quiz.Subject {
	s.mu.Lock()
	defer s.mu.Unlock()

	subjects, err := readCache(s.cachePath)
	if err == nil {
		s.subjects = subjects
		s.log.Debug("loaded cache", zap.String("path", s.cachePath), zap.Int("subjects", len(subjects)))
		return slices.Clone(s.subjects)
	}
	s.logFailure("cache unusable, rebuilding from seed", err)

	seed, err := s.seed()
	if err != nil {
		s.log.Error("seed subjects unavailable", zap.Error(err))
	}
	generated, err := readGenerated(ctx, s.records)
	if err != nil {
		s.logFailure("generated subjects record unusable", err)
	}

	s.subjects = merge(seed, generated)
	s.persistCache()
	s.log.Info("rebuilt corpus",
		zap.Int("seed", len(seed)),
		zap.Int("generated", len(generated)))
	return slices.Clone(s.subjects)
}

// Reload discards the in-memory corpus and loads again.
func (s *Store) Reload(ctx context.Context) []quiz.Subject {
	return s.Load(ctx)
}

// Save replaces the corpus and overwrites the cache file with it. The
// in-memory corpus is replaced even when the write fails.
func (s *Store) Save(_ context.Context, subjects []quiz.Subject) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.subjects = slices.Clone(subjects)
	return writeCache(s.cachePath, s.subjects)
}

// Subjects returns a snapshot of the corpus.
func (s *Store) Subjects() []quiz.Subject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.subjects)
}

// Subject looks a subject up by id.
func (s *Store) Subject(id string) (quiz.Subject, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, subj := range s.subjects {
		if subj.ID == id {
			return subj, true
		}
	}
	return quiz.Subject{}, false
}

// AddOrUpdate stores subject, replacing any subject with the same id in
// both the corpus and the generated-subjects record.
func (s *Store) AddOrUpdate(ctx context.Context, subject quiz.Subject) {
	subject.ReplaceTopics(subject.Topics())

	s.mu.Lock()
	defer s.mu.Unlock()

	generated, err := readGenerated(ctx, s.records)
	if err != nil {
		s.logFailure("generated subjects record unusable, rebuilding from corpus", err)
		generated = generatedOnly(s.subjects)
	}
	generated = append(withoutID(generated, subject.ID), subject)
	s.subjects = append(withoutID(s.subjects, subject.ID), subject)

	if err := writeGenerated(ctx, s.records, generated); err != nil {
		s.logFailure("saving generated subjects record failed", err)
	}
	s.persistCache()
	s.log.Info("stored subject", zap.String("id", subject.ID), zap.Int("questions", subject.TotalQuestions()))
}

// Delete removes a generated subject. Ids outside the generated namespace
// are ignored. It reports whether anything was removed.
func (s *Store) Delete(ctx context.Context, id string) bool {
	if !quiz.IsGeneratedID(id) {
		return false
	}
	return s.DeleteAll(ctx, func(subj quiz.Subject) bool { return subj.ID == id }) > 0
}

// DeleteAll removes every generated subject matching match, or every
// generated subject when match is nil. Seed subjects are never removed.
// It returns the number of subjects removed from the corpus.
func (s *Store) DeleteAll(ctx context.Context, match func(quiz.Subject) bool) int {
	doomed := func(subj quiz.Subject) bool {
		return subj.IsGenerated() && (match == nil || match(subj))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	before := len(s.subjects)
	s.subjects = slices.DeleteFunc(s.subjects, doomed)
	removed := before - len(s.subjects)

	generated, err := readGenerated(ctx, s.records)
	if err != nil {
		s.logFailure("generated subjects record unusable, rebuilding from corpus", err)
		generated = generatedOnly(s.subjects)
	}
	if err := writeGenerated(ctx, s.records, slices.DeleteFunc(generated, doomed)); err != nil {
		s.logFailure("saving generated subjects record failed", err)
	}

	if removed > 0 {
		s.persistCache()
		s.log.Info("deleted generated subjects", zap.Int("count", removed))
	}
	return removed
}

// persistCache writes the cache. Callers hold mu.
func (s *Store) persistCache() {
	if err := writeCache(s.cachePath, s.subjects); err != nil {
		s.logFailure("saving cache failed", err)
	}
}

func (s *Store) logFailure(msg string, err error) {
	s.log.Warn(msg, zap.Error(err))
}
