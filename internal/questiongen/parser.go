package questiongen

import (
	"bytes"
	"encoding/json"
	"regexp"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// NoExplanation is used when the reply has no explanation for the correct
// letter.
const NoExplanation = "No explanation provided."

var optionPrefix = regexp.MustCompile(`^[A-D]\)\s*`)

// Reply is a parsed generation reply.
type Reply struct {
	Question    string
	Options     []string
	Letter      string // upper-case answer letter, "A" for index 0
	AnswerIndex int
	Explanation string
}

// Answer returns the text of the correct option.
func (r *Reply) Answer() string {
	return r.Options[r.AnswerIndex]
}

type rawReply struct {
	Question      string          `json:"question"`
	Options       json.RawMessage `json:"options"`
	CorrectAnswer string          `json:"correct_answer"`
	Explanations  json.RawMessage `json:"explanations"`
}

// ParseReply turns the content string of a generation reply into a Reply.
// It is pure and runs these steps in order, each failing with a
// *ParsingError naming the problem:
//
//  1. decode content as a JSON object and check it against the reply schema
//  2. normalize options (see normalizeOptions)
//  3. resolve correct_answer to an option index (see resolveAnswer)
//  4. look up the explanation (see resolveExplanation); never fails
func ParseReply(content string) (*Reply, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return nil, parsingErrorf("no result")
	}

	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(trimmed))
	if err != nil {
		return nil, &ParsingError{Reason: "content is not valid JSON", Err: err}
	}
	if _, ok := doc.(map[string]any); !ok {
		return nil, parsingErrorf("content is not a JSON object")
	}
	if err := checkShape(doc); err != nil {
		return nil, &ParsingError{Reason: shapeReason(err), Err: err}
	}

	var raw rawReply
	if err := json.Unmarshal([]byte(trimmed), &raw); err != nil {
		return nil, &ParsingError{Reason: "content does not match the reply shape", Err: err}
	}
	if strings.TrimSpace(raw.Question) == "" {
		return nil, parsingErrorf("question text is empty")
	}

	options, err := normalizeOptions(raw.Options)
	if err != nil {
		return nil, err
	}

	letter, index, err := resolveAnswer(raw.CorrectAnswer, len(options))
	if err != nil {
		return nil, err
	}

	return &Reply{
		Question:    raw.Question,
		Options:     options,
		Letter:      letter,
		AnswerIndex: index,
		Explanation: resolveExplanation(raw.Explanations, letter, raw.CorrectAnswer),
	}, nil
}

// normalizeOptions accepts, in priority order:
//
//	(a) an array of strings; a leading "A) " style prefix is stripped from each
//	(b) an object of strings; values are ordered by key, compared upper-cased
//
// Any other shape is a *ParsingError.
func normalizeOptions(raw json.RawMessage) ([]string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, parsingErrorf("options are missing")
	}

	var list []string
	if err := json.Unmarshal(trimmed, &list); err == nil {
		out := make([]string, len(list))
		for i, opt := range list {
			out[i] = optionPrefix.ReplaceAllString(opt, "")
		}
		return out, nil
	}

	var byKey map[string]string
	if err := json.Unmarshal(trimmed, &byKey); err == nil {
		keys := make([]string, 0, len(byKey))
		for k := range byKey {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool {
			ki, kj := strings.ToUpper(keys[i]), strings.ToUpper(keys[j])
			if ki != kj {
				return ki < kj
			}
			return keys[i] < keys[j]
		})
		out := make([]string, len(keys))
		for i, k := range keys {
			out[i] = byKey[k]
		}
		return out, nil
	}

	return nil, parsingErrorf("options must be an array of strings or an object of strings")
}

// resolveAnswer upper-cases the raw answer and uses its first character as
// the letter; 'A' is index 0. The index must address one of n options.
func resolveAnswer(raw string, n int) (string, int, error) {
	answer := strings.ToUpper(strings.TrimSpace(raw))
	if answer == "" {
		return "", 0, parsingErrorf("correct_answer is empty")
	}

	letter := []rune(answer)[0]
	index := int(letter - 'A')
	if index < 0 || index >= n {
		return "", 0, parsingErrorf("correct_answer %q is outside the %d options", raw, n)
	}
	return string(letter), index, nil
}

// resolveExplanation tries these keys in order and returns the first
// string value present, even an empty one:
//
//  1. the letter ("B")
//  2. the lower-cased letter ("b")
//  3. the letter with a closing parenthesis ("B)")
//  4. the upper-cased answer as given ("B) PARIS")
//  5. the answer as given ("B) Paris")
//  6. the first character of the answer as given ("B")
//
// It falls back to NoExplanation.
func resolveExplanation(raw json.RawMessage, letter, answer string) string {
	var explanations map[string]any
	if err := json.Unmarshal(raw, &explanations); err != nil || explanations == nil {
		return NoExplanation
	}

	answer = strings.TrimSpace(answer)
	keys := []string{
		letter,
		strings.ToLower(letter),
		letter + ")",
		strings.ToUpper(answer),
		answer,
	}
	if r := []rune(answer); len(r) > 0 {
		keys = append(keys, string(r[0]))
	}

	for _, k := range keys {
		if s, ok := explanations[k].(string); ok {
			return s
		}
	}
	return NoExplanation
}

// shapeReason flattens a schema validation error into one line.
func shapeReason(err error) string {
	lines := strings.Fields(strings.ReplaceAll(err.Error(), "\n", " | "))
	return "reply does not match the expected shape: " + strings.Join(lines, " ")
}
