package quiz

import (
	"encoding/json"
	"fmt"
	"strings"
)

// GeneratedPrefix marks subject ids owned by the generated-subject store.
const GeneratedPrefix = "ai-"

// Subject is a named collection of topics plus a difficulty index derived
// from them. The index is rebuilt whenever topics are replaced, so the two
// never disagree.
type Subject struct {
	ID          string
	Name        string
	Description string
	IconName    string

	topics Topics
	index  Index
}

// NewSubject builds a subject and its index.
func NewSubject(id, name, description, icon string, topics Topics) Subject {
	s := Subject{ID: id, Name: name, Description: description, IconName: icon}
	s.ReplaceTopics(topics)
	return s
}

// NewGeneratedSubject builds an empty AI subject whose id is
// GeneratedPrefix + Slug(name).
func NewGeneratedSubject(name, description, icon string) Subject {
	if description == "" {
		description = fmt.Sprintf("AI-generated %s curriculum", name)
	}
	return NewSubject(GeneratedPrefix+Slug(name), name, description, icon, Topics{GeneratedTopic: {}})
}

// Slug lower-cases name and joins its whitespace-separated words with "-".
func Slug(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "-")
}

// ReplaceTopics swaps the whole topic map and rebuilds the index.
func (s *Subject) ReplaceTopics(topics Topics) {
	s.topics = topics.Clone()
	s.index = BuildIndex(s.topics)
}

// Topics returns a copy of the topic map.
func (s Subject) Topics() Topics {
	return s.topics.Clone()
}

// QuestionsFor returns the indexed questions at difficulty d.
func (s Subject) QuestionsFor(d Difficulty) []Question {
	return s.index.QuestionsFor(d)
}

// TotalQuestions counts questions across all topics.
func (s Subject) TotalQuestions() int {
	return s.index.Total()
}

// CountsByDifficulty returns the per-difficulty question counts.
func (s Subject) CountsByDifficulty() map[Difficulty]int {
	out := make(map[Difficulty]int, len(Difficulties))
	for _, d := range Difficulties {
		out[d] = s.index.Count(d)
	}
	return out
}

// IsGenerated reports whether the subject lives in the generated namespace.
func (s Subject) IsGenerated() bool {
	return IsGeneratedID(s.ID)
}

// IsGeneratedID reports whether id carries GeneratedPrefix.
func IsGeneratedID(id string) bool {
	return strings.HasPrefix(id, GeneratedPrefix)
}

// WithQuestion returns a copy of s with q appended to topic. The topic map
// is rebuilt and swapped in as a whole.
func (s Subject) WithQuestion(topic string, q Question) Subject {
	topics := s.Topics()
	topics[topic] = append(topics[topic], q)
	out := s
	out.ReplaceTopics(topics)
	return out
}

type subjectJSON struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	IconName    string `json:"iconName" yaml:"iconName"`
	Topics      Topics `json:"topics" yaml:"topics"`
}

func (s Subject) MarshalJSON() ([]byte, error) {
	topics := s.topics
	if topics == nil {
		topics = Topics{}
	}
	return json.Marshal(subjectJSON{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		IconName:    s.IconName,
		Topics:      topics,
	})
}

// UnmarshalJSON decodes a subject and rebuilds its index.
func (s *Subject) UnmarshalJSON(data []byte) error {
	var aux subjectJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*s = NewSubject(aux.ID, aux.Name, aux.Description, aux.IconName, aux.Topics)
	return nil
}

// UnmarshalYAML decodes a subject from YAML and rebuilds its index.
func (s *Subject) UnmarshalYAML(unmarshal func(any) error) error {
	var aux subjectJSON
	if err := unmarshal(&aux); err != nil {
		return err
	}
	*s = NewSubject(aux.ID, aux.Name, aux.Description, aux.IconName, aux.Topics)
	return nil
}
