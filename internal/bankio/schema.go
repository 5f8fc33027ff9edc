package bankio

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// QuestionFileSchema is the JSON schema a batch document must satisfy before
// it is decoded.
var QuestionFileSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"version": map[string]any{
			"type":    "integer",
			"minimum": 1,
			"maximum": FileVersion,
		},
		"questions": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id":              map[string]any{"type": "string", "minLength": 1},
					"macro_block_id":  map[string]any{"type": "string"},
					"stimulus_text":   map[string]any{"type": "string", "minLength": 1},
					"conclusion_text": map[string]any{"type": "string", "minLength": 1},
					"is_correct":      map[string]any{"type": "boolean"},
					"logic_group": map[string]any{
						"type": "string",
						"enum": []any{"categorical", "relative", "majority", "complex"},
					},
					"trick_type":  map[string]any{"type": "string"},
					"explanation": map[string]any{"type": "string"},
				},
				"required":             []any{"id", "stimulus_text", "conclusion_text", "is_correct", "logic_group"},
				"additionalProperties": false,
			},
		},
	},
	"required": []any{"version", "questions"},
}

var (
	compiledOnce sync.Once
	compiled     *jsonschema.Schema
	compileErr   error
)

func fileSchema() (*jsonschema.Schema, error) {
	compiledOnce.Do(func() {
		// The compiler wants a plain decoded JSON value.
		defBytes, err := json.Marshal(QuestionFileSchema)
		if err != nil {
			compileErr = fmt.Errorf("marshal schema: %w", err)
			return
		}
		var def any
		if err := json.Unmarshal(defBytes, &def); err != nil {
			compileErr = fmt.Errorf("parse schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		const url = "schema://question-file.json"
		if err := c.AddResource(url, def); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiled, compileErr = c.Compile(url)
	})
	return compiled, compileErr
}

// validateDocument checks raw JSON against QuestionFileSchema.
func validateDocument(raw []byte) error {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	schema, err := fileSchema()
	if err != nil {
		return fmt.Errorf("compile question file schema: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("batch does not match schema: %w", err)
	}
	return nil
}
