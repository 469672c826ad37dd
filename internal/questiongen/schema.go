package questiongen

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const replySchemaURL = "schema://generated-question.json"

// replySchemaDefinition is the structural contract of a generation reply.
// It is deliberately loose: options may be an array or a letter-keyed
// object, and explanations are not constrained because a bad explanation
// map only costs the explanation, not the question.
var replySchemaDefinition = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"question": map[string]any{
			"type":      "string",
			"minLength": 1,
		},
		"options": map[string]any{
			"oneOf": []any{
				map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "string"},
				},
				map[string]any{
					"type":                 "object",
					"additionalProperties": map[string]any{"type": "string"},
				},
			},
		},
		"correct_answer": map[string]any{
			"type": "string",
		},
	},
	"required": []any{"question", "options", "correct_answer"},
}

// replySchema compiles the reply schema once.
var replySchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	raw, err := json.Marshal(replySchemaDefinition)
	if err != nil {
		return nil, fmt.Errorf("marshal reply schema: %w", err)
	}
	def, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse reply schema: %w", err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource(replySchemaURL, def); err != nil {
		return nil, fmt.Errorf("add reply schema: %w", err)
	}
	return c.Compile(replySchemaURL)
})

// checkShape validates a decoded reply against the reply schema.
func checkShape(doc any) error {
	schema, err := replySchema()
	if err != nil {
		return fmt.Errorf("compile reply schema: %w", err)
	}
	return schema.Validate(doc)
}
