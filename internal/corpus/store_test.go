package corpus

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/abhisek/brainmaxx/internal/quiz"
	"github.com/abhisek/brainmaxx/internal/store"
)

type memRecords struct {
	mu       sync.Mutex
	data     map[string][]byte
	fail     error
	failGets int // next n Gets fail
}

func newMemRecords() *memRecords {
	return &memRecords{data: map[string][]byte{}}
}

func (m *memRecords) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return nil, m.fail
	}
	if m.failGets > 0 {
		m.failGets--
		return nil, errors.New("database is locked")
	}
	v, ok := m.data[key]
	if !ok {
		return nil, store.ErrNotFound
	}
	return v, nil
}

func (m *memRecords) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	m.data[key] = value
	return nil
}

func (m *memRecords) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func q(id string, d quiz.Difficulty) quiz.Question {
	return quiz.Question{
		ID:         id,
		Type:       quiz.TypeMultipleChoice,
		Difficulty: d,
		Content:    quiz.Content{Text: id, Options: []string{"a", "b"}, CorrectAnswers: []string{"a"}},
		Images:     []string{},
	}
}

func seedSubjects() ([]quiz.Subject, error) {
	return []quiz.Subject{
		quiz.NewSubject("math", "SAT Math", "", "function", quiz.Topics{
			"Algebra":  {q("m1", quiz.Easy), q("m2", quiz.Hard)},
			"Geometry": {q("m3", quiz.Medium)},
		}),
		quiz.NewSubject("english", "SAT English", "", "book", quiz.Topics{"Reading": {}}),
	}, nil
}

func generatedSubject(name string, ids ...string) quiz.Subject {
	s := quiz.NewGeneratedSubject(name, "", "sparkles")
	for _, id := range ids {
		s = s.WithQuestion(quiz.GeneratedTopic, q(id, quiz.Hard))
	}
	return s
}

func newTestStore(t *testing.T, records store.RecordRepo) (*Store, string, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	path := filepath.Join(t.TempDir(), CacheFileName)
	s := New(Options{
		CachePath: path,
		Records:   records,
		Seed:      seedSubjects,
		Logger:    zap.New(core),
	})
	return s, path, logs
}

func ids(subjects []quiz.Subject) []string {
	out := make([]string, len(subjects))
	for i, s := range subjects {
		out[i] = s.ID
	}
	return out
}

func TestLoad_ColdStartUsesSeedAndWritesCache(t *testing.T) {
	s, path, _ := newTestStore(t, newMemRecords())

	got := s.Load(context.Background())
	assert.Equal(t, []string{"math", "english"}, ids(got))
	assert.Equal(t, 3, got[0].TotalQuestions())

	_, err := os.Stat(path)
	require.NoError(t, err, "cache must be written after a cold start")

	cached, err := readCache(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"math", "english"}, ids(cached))
}

func TestLoad_CacheWinsOverSeed(t *testing.T) {
	ctx := context.Background()
	s, path, _ := newTestStore(t, newMemRecords())
	s.Load(ctx)

	// A different seed is ignored once the cache exists.
	s2 := New(Options{
		CachePath: path,
		Seed: func() ([]quiz.Subject, error) {
			return []quiz.Subject{quiz.NewSubject("other", "Other", "", "", nil)}, nil
		},
	})
	assert.Equal(t, []string{"math", "english"}, ids(s2.Load(ctx)))
}

func TestLoad_CorruptCacheRecoversGeneratedSubjects(t *testing.T) {
	ctx := context.Background()
	records := newMemRecords()
	s, path, logs := newTestStore(t, records)
	s.Load(ctx)
	s.AddOrUpdate(ctx, generatedSubject("World History", "g1", "g2"))

	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	got := s.Reload(ctx)
	assert.Equal(t, []string{"math", "english", "ai-world-history"}, ids(got))
	assert.Equal(t, 2, got[2].TotalQuestions())
	assert.NotZero(t, logs.FilterMessage("cache unusable, rebuilding from seed").Len())

	// The rebuilt corpus was written back.
	cached, err := readCache(path)
	require.NoError(t, err)
	assert.Len(t, cached, 3)
}

func TestLoad_DeletedCacheRecoversGeneratedSubjects(t *testing.T) {
	ctx := context.Background()
	records := newMemRecords()
	s, path, _ := newTestStore(t, records)
	s.Load(ctx)
	s.AddOrUpdate(ctx, generatedSubject("Biology", "b1"))

	require.NoError(t, os.Remove(path))

	fresh := New(Options{CachePath: path, Records: records, Seed: seedSubjects})
	assert.Equal(t, []string{"math", "english", "ai-biology"}, ids(fresh.Load(ctx)))
}

func TestSaveLoad_Idempotent(t *testing.T) {
	ctx := context.Background()
	s, path, _ := newTestStore(t, newMemRecords())
	s.Load(ctx)
	s.AddOrUpdate(ctx, generatedSubject("Art", "a1"))

	require.NoError(t, s.Save(ctx, s.Load(ctx)))
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	require.NoError(t, s.Save(ctx, s.Load(ctx)))
	second, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}

func TestAddOrUpdate_ReplacesByID(t *testing.T) {
	ctx := context.Background()
	records := newMemRecords()
	s, path, _ := newTestStore(t, records)
	s.Load(ctx)

	s.AddOrUpdate(ctx, generatedSubject("Physics", "p1"))
	s.AddOrUpdate(ctx, generatedSubject("Physics", "p2", "p3"))

	got := s.Subjects()
	assert.Equal(t, []string{"math", "english", "ai-physics"}, ids(got))

	subj, ok := s.Subject("ai-physics")
	require.True(t, ok)
	hard := subj.QuestionsFor(quiz.Hard)
	require.Len(t, hard, 2)
	assert.Equal(t, "p2", hard[0].ID)

	cached, err := readCache(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"math", "english", "ai-physics"}, ids(cached))

	rec, err := readGenerated(ctx, records)
	require.NoError(t, err)
	assert.Equal(t, []string{"ai-physics"}, ids(rec))
	assert.Equal(t, 2, rec[0].TotalQuestions())
}

func TestAddOrUpdate_RebuildsIndex(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore(t, nil)
	s.Load(ctx)

	var subj quiz.Subject
	require.NoError(t, subj.UnmarshalJSON([]byte(`{"id":"ai-x","name":"X","topics":{"Generated":[{"id":"x1","difficulty":"H","question":{"text":"t","options":["a"],"correct_answers":["a"]}}]}}`)))
	s.AddOrUpdate(ctx, subj)

	got, ok := s.Subject("ai-x")
	require.True(t, ok)
	assert.Len(t, got.QuestionsFor(quiz.Hard), 1)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	records := newMemRecords()
	s, path, _ := newTestStore(t, records)
	s.Load(ctx)
	s.AddOrUpdate(ctx, generatedSubject("One", "o1"))
	s.AddOrUpdate(ctx, generatedSubject("Two", "t1"))

	assert.False(t, s.Delete(ctx, "math"), "seed subjects are never deleted")
	assert.False(t, s.Delete(ctx, "ai-missing"))
	assert.True(t, s.Delete(ctx, "ai-one"))

	assert.Equal(t, []string{"math", "english", "ai-two"}, ids(s.Subjects()))

	cached, err := readCache(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"math", "english", "ai-two"}, ids(cached))

	rec, err := readGenerated(ctx, records)
	require.NoError(t, err)
	assert.Equal(t, []string{"ai-two"}, ids(rec))
}

func TestDeleteAll(t *testing.T) {
	ctx := context.Background()
	records := newMemRecords()
	s, _, _ := newTestStore(t, records)
	s.Load(ctx)
	s.AddOrUpdate(ctx, generatedSubject("One", "o1"))
	s.AddOrUpdate(ctx, generatedSubject("Two", "t1"))
	s.AddOrUpdate(ctx, generatedSubject("Three", "h1"))

	n := s.DeleteAll(ctx, func(subj quiz.Subject) bool { return subj.Name == "Two" })
	assert.Equal(t, 1, n)

	// A predicate matching seed subjects still leaves them alone.
	n = s.DeleteAll(ctx, func(quiz.Subject) bool { return true })
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"math", "english"}, ids(s.Subjects()))

	rec, err := readGenerated(ctx, records)
	require.NoError(t, err)
	assert.Empty(t, rec)

	assert.Zero(t, s.DeleteAll(ctx, nil))
}

func TestPersistenceFailuresAreLogged(t *testing.T) {
	ctx := context.Background()
	records := newMemRecords()
	records.fail = errors.New("disk on fire")

	core, logs := observer.New(zapcore.WarnLevel)
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	s := New(Options{
		CachePath: filepath.Join(blocker, "cache.json"),
		Records:   records,
		Seed:      seedSubjects,
		Logger:    zap.New(core),
	})

	got := s.Load(ctx)
	assert.Equal(t, []string{"math", "english"}, ids(got), "seed is the last resort")

	s.AddOrUpdate(ctx, generatedSubject("Kept", "k1"))
	assert.Equal(t, []string{"math", "english", "ai-kept"}, ids(s.Subjects()), "memory stays authoritative")

	var perr *PersistenceError
	found := false
	for _, entry := range logs.All() {
		for _, f := range entry.Context {
			if err, ok := f.Interface.(error); ok && errors.As(err, &perr) {
				found = true
			}
		}
	}
	assert.True(t, found, "expected a logged *PersistenceError")
}

func TestAddOrUpdate_UnreadableRecordKeepsOtherSubjects(t *testing.T) {
	ctx := context.Background()
	records := newMemRecords()
	s, path, _ := newTestStore(t, records)
	s.Load(ctx)

	s.AddOrUpdate(ctx, generatedSubject("Physics", "p1"))
	records.mu.Lock()
	records.failGets = 1
	records.mu.Unlock()
	s.AddOrUpdate(ctx, generatedSubject("Chem", "c1"))
	s.AddOrUpdate(ctx, generatedSubject("Bio", "b1"))

	require.NoError(t, os.Remove(path))
	got := New(Options{CachePath: path, Records: records, Seed: seedSubjects, Logger: zap.NewNop()}).Load(ctx)
	assert.Equal(t, []string{"math", "english", "ai-physics", "ai-chem", "ai-bio"}, ids(got))
}

func TestDeleteAll_UnreadableRecordIsRebuilt(t *testing.T) {
	ctx := context.Background()
	records := newMemRecords()
	s, path, _ := newTestStore(t, records)
	s.Load(ctx)
	s.AddOrUpdate(ctx, generatedSubject("Physics", "p1"))
	s.AddOrUpdate(ctx, generatedSubject("Chem", "c1"))

	records.mu.Lock()
	records.failGets = 1
	records.mu.Unlock()
	assert.True(t, s.Delete(ctx, "ai-physics"))

	require.NoError(t, os.Remove(path))
	got := New(Options{CachePath: path, Records: records, Seed: seedSubjects, Logger: zap.NewNop()}).Load(ctx)
	assert.Equal(t, []string{"math", "english", "ai-chem"}, ids(got))
}

func TestSubjectsReturnsSnapshot(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore(t, nil)
	s.Load(ctx)

	snap := s.Subjects()
	snap[0] = quiz.NewSubject("changed", "", "", "", nil)

	assert.Equal(t, "math", s.Subjects()[0].ID)
}

func TestWithRealRecordRepo(t *testing.T) {
	ctx := context.Background()
	db, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer db.Close()

	s, path, _ := newTestStore(t, db.RecordRepo())
	s.Load(ctx)
	s.AddOrUpdate(ctx, generatedSubject("Music", "mu1"))
	require.NoError(t, os.Remove(path))

	fresh := New(Options{CachePath: path, Records: db.RecordRepo(), Seed: seedSubjects})
	assert.Contains(t, ids(fresh.Load(ctx)), "ai-music")
}
