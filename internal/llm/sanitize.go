package llm

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// stringFields are the voter fields the schema types as string; models
// occasionally emit numbers for them (serials, part numbers).
var stringFields = []string{
	"epicNo", "name", "gender", "parentSpouseName",
	"assemblyConstituency", "parliamentaryConstituency",
	"district", "state", "partNo", "partName", "serialNo",
}

// SanitizeResponse normalizes a model reply that almost matches the voters
// schema so the document can still validate: non-object voter entries are
// dropped, numeric string fields are stringified, string ages are parsed,
// nulls removed. Returns the cleaned document and the names of repaired or
// dropped fields.
func SanitizeResponse(doc []byte) ([]byte, []string, error) {
	var m map[string]any
	if err := json.Unmarshal(doc, &m); err != nil {
		return nil, nil, err
	}

	var touched []string

	voters, _ := m["voters"].([]any)
	cleaned := make([]any, 0, len(voters))
	for i, rv := range voters {
		v, ok := rv.(map[string]any)
		if !ok {
			touched = append(touched, fmt.Sprintf("voters[%d]", i))
			continue
		}
		touched = append(touched, sanitizeVoter(v, i)...)
		cleaned = append(cleaned, v)
	}
	if m["voters"] != nil {
		m["voters"] = cleaned
	}

	if meta, ok := m["meta"].(map[string]any); ok {
		for k, mv := range meta {
			switch t := mv.(type) {
			case nil:
				delete(meta, k)
				touched = append(touched, "meta."+k)
			case float64:
				meta[k] = strconv.FormatFloat(t, 'f', -1, 64)
				touched = append(touched, "meta."+k)
			}
		}
	}

	b, err := json.Marshal(m)
	if err != nil {
		return nil, nil, err
	}
	return b, touched, nil
}

func sanitizeVoter(v map[string]any, idx int) []string {
	var touched []string
	tag := func(field string) string { return fmt.Sprintf("voters[%d].%s", idx, field) }

	for _, k := range stringFields {
		switch t := v[k].(type) {
		case nil:
			if _, present := v[k]; present {
				delete(v, k)
				touched = append(touched, tag(k))
			}
		case float64:
			v[k] = strconv.FormatFloat(t, 'f', -1, 64)
			touched = append(touched, tag(k))
		case string:
			// fine
		default:
			if _, present := v[k]; present {
				delete(v, k)
				touched = append(touched, tag(k))
			}
		}
	}

	switch t := v["age"].(type) {
	case string:
		if n, err := strconv.ParseFloat(strings.TrimSpace(t), 64); err == nil {
			v["age"] = n
		} else {
			delete(v, "age")
		}
		touched = append(touched, tag("age"))
	case nil:
		if _, present := v["age"]; present {
			delete(v, "age")
			touched = append(touched, tag("age"))
		}
	}

	if ps, present := v["pollingStation"]; present {
		if _, ok := ps.(map[string]any); !ok {
			delete(v, "pollingStation")
			touched = append(touched, tag("pollingStation"))
		}
	}
	return touched
}
