package coach

import "github.com/abhisek/syllogiz/internal/llm"

// DebriefSchema is the structured output the coach asks for.
var DebriefSchema = &llm.Schema{
	Name:        "session-debrief",
	Description: "A short debrief of a syllogism drill run",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"headline": map[string]any{
				"type":        "string",
				"description": "One sentence on how the run went (at most 20 words)",
			},
			"focus_groups": map[string]any{
				"type":        "array",
				"description": "The one or two logic groups to practise next, weakest first",
				"items": map[string]any{
					"type": "string",
					"enum": []any{"categorical", "relative", "majority", "complex"},
				},
				"maxItems": 2,
			},
			"tip": map[string]any{
				"type":        "string",
				"description": "One concrete reasoning tip aimed at the most missed trick (2-3 sentences)",
			},
		},
		"required":             []any{"headline", "focus_groups", "tip"},
		"additionalProperties": false,
	},
}
