package diagnosis

import "github.com/abhisek/derivacheck/internal/llm"

// ExplanationSchema is the structured output expected from the tutor.
var ExplanationSchema = &llm.Schema{
	Name:        "step-explanation",
	Description: "Why one line of a learner's differentiation is wrong, tied to a catalog rule",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"rule_id": map[string]any{
				"type":        []any{"string", "null"},
				"description": "ID of the rule the learner misapplied, from the candidate list, or null",
			},
			"explanation": map[string]any{
				"type":        "string",
				"description": "One or two sentences addressed to the learner",
			},
			"confidence": map[string]any{
				"type":        "number",
				"minimum":     0.0,
				"maximum":     1.0,
				"description": "How sure the tutor is that the rule explains the mistake",
			},
		},
		"required":             []any{"rule_id", "explanation", "confidence"},
		"additionalProperties": false,
	},
}
