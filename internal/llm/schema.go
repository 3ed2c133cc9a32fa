package llm

// BuildVoterJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map. It is embedded in the extraction prompt and used locally to
// validate the model's reply. Deliberately permissive: every voter field is
// optional because the normalizer supplies defaults; the schema only pins
// the container shape and field types.
func BuildVoterJSONSchema() map[string]any {
	voter := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"epicNo":                    map[string]any{"type": "string"},
			"name":                      map[string]any{"type": "string"},
			"age":                       map[string]any{"type": "number"},
			"gender":                    map[string]any{"type": "string"},
			"parentSpouseName":          map[string]any{"type": "string"},
			"assemblyConstituency":      map[string]any{"type": "string"},
			"parliamentaryConstituency": map[string]any{"type": "string"},
			"district":                  map[string]any{"type": "string"},
			"state":                     map[string]any{"type": "string"},
			"partNo":                    map[string]any{"type": "string"},
			"partName":                  map[string]any{"type": "string"},
			"serialNo":                  map[string]any{"type": "string"},
			"pollingStation": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"name":    map[string]any{"type": "string"},
					"address": map[string]any{"type": "string"},
				},
			},
		},
	}

	meta := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"assemblyConstituency":      map[string]any{"type": "string"},
			"parliamentaryConstituency": map[string]any{"type": "string"},
			"partNo":                    map[string]any{"type": "string"},
			"partName":                  map[string]any{"type": "string"},
		},
	}

	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"voters": map[string]any{"type": "array", "items": voter},
			"meta":   meta,
		},
	}
}
