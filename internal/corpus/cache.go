package corpus

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/abhisek/brainmaxx/internal/quiz"
	"github.com/abhisek/brainmaxx/internal/store"
)

// CacheFileName is the cache file created under the data directory.
const CacheFileName = "questions_cache.json"

// DefaultCachePath returns <data dir>/questions_cache.json and makes sure
// the directory exists.
func DefaultCachePath() (string, error) {
	dir, err := store.DefaultDataDir()
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, CacheFileName)
	return path, store.EnsureDir(path)
}

// encodeSubjects renders subjects as indented JSON. Map keys are sorted by
// encoding/json, so equal corpora always encode to the same bytes.
func encodeSubjects(subjects []quiz.Subject) ([]byte, error) {
	if subjects == nil {
		subjects = []quiz.Subject{}
	}
	data, err := json.MarshalIndent(subjects, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func decodeSubjects(data []byte) ([]quiz.Subject, error) {
	var subjects []quiz.Subject
	if err := json.Unmarshal(data, &subjects); err != nil {
		return nil, err
	}
	if subjects == nil {
		return nil, fmt.Errorf("not a subject list")
	}
	return subjects, nil
}

func readCache(path string) ([]quiz.Subject, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &PersistenceError{Op: "read", Target: path, Err: err}
	}
	subjects, err := decodeSubjects(data)
	if err != nil {
		return nil, &PersistenceError{Op: "decode", Target: path, Err: err}
	}
	return subjects, nil
}

// writeCache replaces the cache file in one rename so a crash mid-write
// leaves the previous cache intact.
func writeCache(path string, subjects []quiz.Subject) error {
	data, err := encodeSubjects(subjects)
	if err != nil {
		return &PersistenceError{Op: "encode", Target: path, Err: err}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &PersistenceError{Op: "write", Target: path, Err: err}
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".questions-cache-*")
	if err != nil {
		return &PersistenceError{Op: "write", Target: path, Err: fmt.Errorf("create temp file: %w", err)}
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return &PersistenceError{Op: "write", Target: path, Err: fmt.Errorf("write temp file: %w", err)}
	}
	if err := tmp.Close(); err != nil {
		return &PersistenceError{Op: "write", Target: path, Err: fmt.Errorf("close temp file: %w", err)}
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return &PersistenceError{Op: "write", Target: path, Err: fmt.Errorf("rename: %w", err)}
	}
	return nil
}
