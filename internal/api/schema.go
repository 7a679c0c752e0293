package api

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// checkRequestSchema describes the body of POST /v1/check.
var checkRequestSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"mode": map[string]any{
			"type": "string",
			// Matches derivation.ParseMode, which ignores case and
			// surrounding space.
			"pattern": `(?i)^\s*(normal|implicit|parametric)\s*$`,
		},
		"function": map[string]any{"type": "string", "maxLength": 1000},
		"x":        map[string]any{"type": "string", "maxLength": 1000},
		"y":        map[string]any{"type": "string", "maxLength": 1000},
		"steps": map[string]any{
			"type":     "array",
			"minItems": 1,
			"maxItems": 50,
			"items":    map[string]any{"type": "string", "maxLength": 1000},
		},
		"explain": map[string]any{"type": "boolean"},
	},
	"required":             []string{"mode", "steps"},
	"additionalProperties": false,
}

const checkRequestURL = "schema://check-request.json"

func compileRequestSchema() (*jsonschema.Schema, error) {
	b, err := json.Marshal(checkRequestSchema)
	if err != nil {
		return nil, fmt.Errorf("marshal request schema: %w", err)
	}
	def, err := jsonschema.UnmarshalJSON(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("parse request schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(checkRequestURL, def); err != nil {
		return nil, fmt.Errorf("add request schema: %w", err)
	}
	return c.Compile(checkRequestURL)
}
