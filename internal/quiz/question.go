package quiz

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
)

const (
	// GeneratedTopic is the topic that holds questions produced by the
	// text-generation service.
	GeneratedTopic = "Generated"

	// TypeMultipleChoice is the only question type the generator produces.
	TypeMultipleChoice = "multiple-choice"

	noQuestionText    = "Question text not available"
	noExplanationText = "No explanation available"
)

// Question is a single practice question.
type Question struct {
	ID          string      `json:"id" yaml:"id"`
	Type        string      `json:"type,omitempty" yaml:"type,omitempty"`
	Subject     string      `json:"subject" yaml:"subject"`
	Topic       string      `json:"topic" yaml:"topic"`
	Skill       string      `json:"skill" yaml:"skill"`
	Difficulty  Difficulty  `json:"difficulty" yaml:"difficulty"`
	Lesson      string      `json:"lesson,omitempty" yaml:"lesson,omitempty"`
	Content     Content     `json:"question" yaml:"question"`
	Explanation Explanation `json:"explanation" yaml:"explanation"`

	// Images are opaque references resolved by the presentation layer.
	Images []string `json:"images" yaml:"images"`
}

// Content is the prompt block of a question. Text and OriginalMath are two
// renderings of the same prompt; at least one must be present for display.
type Content struct {
	Text         string   `json:"text,omitempty" yaml:"text,omitempty"`
	OriginalMath string   `json:"original_math,omitempty" yaml:"original_math,omitempty"`
	Options      []string `json:"options" yaml:"options"`

	// CorrectAnswers is non-empty for scorable questions; the first element
	// is the scored answer.
	CorrectAnswers []string `json:"correct_answers" yaml:"correct_answers"`
}

// Explanation is the worked solution with the same text/math duality as Content.
type Explanation struct {
	Text         string `json:"text,omitempty" yaml:"text,omitempty"`
	OriginalMath string `json:"original_math,omitempty" yaml:"original_math,omitempty"`
}

// HasPrompt reports whether either rendering of the prompt is present.
func (c Content) HasPrompt() bool {
	return c.Text != "" || c.OriginalMath != ""
}

// DisplayText returns Text, falling back to OriginalMath.
func (c Content) DisplayText() string {
	switch {
	case c.Text != "":
		return c.Text
	case c.OriginalMath != "":
		return c.OriginalMath
	default:
		return noQuestionText
	}
}

// ScoredAnswer returns the first correct answer, or "" when there is none.
func (c Content) ScoredAnswer() string {
	if len(c.CorrectAnswers) == 0 {
		return ""
	}
	return c.CorrectAnswers[0]
}

// DisplayText returns Text, falling back to OriginalMath.
func (e Explanation) DisplayText() string {
	switch {
	case e.Text != "":
		return e.Text
	case e.OriginalMath != "":
		return e.OriginalMath
	default:
		return noExplanationText
	}
}

// Selectable reports whether the question can be served in a quiz: it has a
// prompt, at least one option, and its scored answer is one of the options.
func (q Question) Selectable() bool {
	if !q.Content.HasPrompt() || len(q.Content.Options) == 0 {
		return false
	}
	answer := q.Content.ScoredAnswer()
	return answer != "" && slices.Contains(q.Content.Options, answer)
}

// IsCorrect reports whether the option at index selected is the scored answer.
func (q Question) IsCorrect(selected int) bool {
	if selected < 0 || selected >= len(q.Content.Options) {
		return false
	}
	answer := q.Content.ScoredAnswer()
	return answer != "" && q.Content.Options[selected] == answer
}

// UnmarshalJSON accepts the option and answer shapes found in stored data.
//
// options, in priority order:
//  1. an array of strings
//  2. an array of {"id": ..., "content": ...} objects (content is kept)
//
// correct_answers, in priority order:
//  1. an array of strings
//  2. a single string
//
// A missing or null field decodes to an empty list. Any other shape is an error.
func (c *Content) UnmarshalJSON(data []byte) error {
	var aux struct {
		Text           *string         `json:"text"`
		OriginalMath   *string         `json:"original_math"`
		Options        json.RawMessage `json:"options"`
		CorrectAnswers json.RawMessage `json:"correct_answers"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	options, err := decodeOptions(aux.Options)
	if err != nil {
		return err
	}
	answers, err := decodeAnswers(aux.CorrectAnswers)
	if err != nil {
		return err
	}

	*c = Content{Options: options, CorrectAnswers: answers}
	if aux.Text != nil {
		c.Text = *aux.Text
	}
	if aux.OriginalMath != nil {
		c.OriginalMath = *aux.OriginalMath
	}
	return nil
}

func decodeOptions(raw json.RawMessage) ([]string, error) {
	if isAbsent(raw) {
		return nil, nil
	}

	var plain []string
	if err := json.Unmarshal(raw, &plain); err == nil {
		return plain, nil
	}

	var objects []struct {
		ID      string  `json:"id"`
		Content *string `json:"content"`
	}
	if err := json.Unmarshal(raw, &objects); err == nil {
		out := make([]string, 0, len(objects))
		for i, o := range objects {
			if o.Content == nil {
				return nil, fmt.Errorf("option %d has no content", i)
			}
			out = append(out, *o.Content)
		}
		return out, nil
	}

	return nil, fmt.Errorf("options: expected array of strings or {id, content} objects")
}

func decodeAnswers(raw json.RawMessage) ([]string, error) {
	if isAbsent(raw) {
		return nil, nil
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}

	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return []string{single}, nil
	}

	return nil, fmt.Errorf("correct_answers: expected array of strings or string")
}

func isAbsent(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
