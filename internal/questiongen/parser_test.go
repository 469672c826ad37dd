package questiongen

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReply_ArrayOptions(t *testing.T) {
	content := `{
		"question": "Which word is a noun?",
		"options": ["A) run", "B)  table", "C)quickly", "blue"],
		"correct_answer": "b",
		"explanations": {"A": "verb", "B": "a thing", "C": "adverb", "D": "adjective"}
	}`

	r, err := ParseReply(content)
	require.NoError(t, err)
	assert.Equal(t, "Which word is a noun?", r.Question)
	assert.Equal(t, []string{"run", "table", "quickly", "blue"}, r.Options)
	assert.Equal(t, "B", r.Letter)
	assert.Equal(t, 1, r.AnswerIndex)
	assert.Equal(t, "table", r.Answer())
	assert.Equal(t, "a thing", r.Explanation)
}

func TestParseReply_ObjectOptions(t *testing.T) {
	content := `{
		"question": "Pick the prime.",
		"options": {"d": "9", "B": "4", "a": "2", "C": "8"},
		"correct_answer": "A"
	}`

	r, err := ParseReply(content)
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "4", "8", "9"}, r.Options)
	assert.Equal(t, "2", r.Answer())
	assert.Equal(t, NoExplanation, r.Explanation)
}

func TestParseReply_LowercasePrefixKept(t *testing.T) {
	r, err := ParseReply(`{"question":"q","options":["a) one","E) two"],"correct_answer":"A"}`)
	require.NoError(t, err)
	assert.Equal(t, []string{"a) one", "E) two"}, r.Options)
}

func TestParseReply_ExplanationPriority(t *testing.T) {
	tests := []struct {
		name         string
		answer       string
		explanations string
		want         string
	}{
		{"letter wins", `"C"`, `{"C": "upper", "c": "lower"}`, "upper"},
		{"lower letter", `"C"`, `{"c": "lower", "C)": "paren"}`, "lower"},
		{"letter with paren", `"C"`, `{"C)": "paren"}`, "paren"},
		{"full upper answer", `"c) eight"`, `{"C) EIGHT": "full upper", "c) eight": "raw"}`, "full upper"},
		{"raw answer", `"c) eight"`, `{"c) eight": "raw"}`, "raw"},
		{"present empty value wins", `"C"`, `{"C": "", "c": "lower"}`, ""},
		{"non-string value skipped", `"C"`, `{"C": 3, "C)": "paren"}`, "paren"},
		{"no match", `"C"`, `{"A": "other"}`, NoExplanation},
		{"explanations not an object", `"C"`, `"just text"`, NoExplanation},
		{"explanations missing", `"C"`, ``, NoExplanation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := `{"question":"q","options":["1","2","8","9"],"correct_answer":` + tt.answer
			if tt.explanations != "" {
				content += `,"explanations":` + tt.explanations
			}
			content += `}`

			r, err := ParseReply(content)
			require.NoError(t, err)
			assert.Equal(t, 2, r.AnswerIndex)
			assert.Equal(t, tt.want, r.Explanation)
		})
	}
}

func TestParseReply_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty content", "   "},
		{"not json", "Here is your question: what?"},
		{"json array", `["a", "b"]`},
		{"missing question", `{"options":["1","2"],"correct_answer":"A"}`},
		{"empty question", `{"question":"","options":["1","2"],"correct_answer":"A"}`},
		{"blank question", `{"question":"   ","options":["1","2"],"correct_answer":"A"}`},
		{"missing options", `{"question":"q","correct_answer":"A"}`},
		{"numeric options", `{"question":"q","options":[1,2],"correct_answer":"A"}`},
		{"string options", `{"question":"q","options":"A, B","correct_answer":"A"}`},
		{"object options with numbers", `{"question":"q","options":{"A":1},"correct_answer":"A"}`},
		{"missing answer", `{"question":"q","options":["1","2"]}`},
		{"empty answer", `{"question":"q","options":["1","2"],"correct_answer":"  "}`},
		{"numeric answer", `{"question":"q","options":["1","2"],"correct_answer":1}`},
		{"answer past options", `{"question":"q","options":["1","2"],"correct_answer":"C"}`},
		{"answer before A", `{"question":"q","options":["1","2"],"correct_answer":"1"}`},
		{"no options at all", `{"question":"q","options":[],"correct_answer":"A"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := ParseReply(tt.content)
			require.Error(t, err)
			assert.Nil(t, r)

			var perr *ParsingError
			require.True(t, errors.As(err, &perr), "expected *ParsingError, got %T", err)
			assert.NotEmpty(t, perr.Reason)
		})
	}
}

func TestParseReply_AnswerIndexWithinOptions(t *testing.T) {
	for _, letter := range []string{"A", "B", "C", "D"} {
		r, err := ParseReply(`{"question":"q","options":["w","x","y","z"],"correct_answer":"` + letter + `"}`)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, r.AnswerIndex, 0)
		assert.Less(t, r.AnswerIndex, len(r.Options))
		assert.Equal(t, letter, r.Letter)
	}
}

func TestParseReply_AnswerWithParen(t *testing.T) {
	r, err := ParseReply(`{"question":"q","options":["w","x","y","z"],"correct_answer":"B)","explanations":{"B":"because"}}`)
	require.NoError(t, err)
	assert.Equal(t, 1, r.AnswerIndex)
	assert.Equal(t, "x", r.Answer())
	assert.Equal(t, "because", r.Explanation)
}

func TestCheckCredential(t *testing.T) {
	assert.Same(t, ErrMissingCredential, CheckCredential(""))
	assert.Same(t, ErrMissingCredential, CheckCredential("  "))
	assert.Same(t, ErrInvalidCredential, CheckCredential(PlaceholderCredential))
	assert.NoError(t, CheckCredential("sk-live"))
}

func TestBuildSystemPrompt(t *testing.T) {
	def := buildSystemPrompt(GenerateInput{Subject: "SAT English"})
	assert.Contains(t, def, "SAT practice questions")
	assert.Contains(t, def, "- Subject: SAT English")
	assert.Contains(t, def, `"correct_answer": "A"`)

	custom := buildSystemPrompt(GenerateInput{Subject: "Chemistry", CustomPrompt: "You write chemistry drills."})
	assert.NotContains(t, custom, "SAT practice questions")
	assert.Contains(t, custom, "You write chemistry drills.")
	assert.Contains(t, custom, "Subject: Chemistry")
	assert.Contains(t, custom, "Important formatting rules")
}
