// Package seed holds the subjects bundled with the binary.
package seed

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/brainmaxx/internal/quiz"
)

//go:embed subjects.yaml
var subjectsYAML []byte

var load = sync.OnceValues(func() ([]quiz.Subject, error) {
	return Parse(subjectsYAML)
})

// Parse decodes a YAML list of subjects.
func Parse(data []byte) ([]quiz.Subject, error) {
	var subjects []quiz.Subject
	if err := yaml.Unmarshal(data, &subjects); err != nil {
		return nil, fmt.Errorf("decode seed subjects: %w", err)
	}
	return subjects, nil
}

// Subjects returns a fresh copy of the bundled subjects.
func Subjects() ([]quiz.Subject, error) {
	subjects, err := load()
	if err != nil {
		return nil, err
	}
	out := make([]quiz.Subject, len(subjects))
	for i, s := range subjects {
		out[i] = quiz.NewSubject(s.ID, s.Name, s.Description, s.IconName, s.Topics())
	}
	return out, nil
}

// MustLoad is Subjects for callers that treat broken bundled data as a
// build defect.
func MustLoad() []quiz.Subject {
	subjects, err := Subjects()
	if err != nil {
		panic(err)
	}
	return subjects
}
