package gemini

import (
	"encoding/json"
	"strings"

	"github.com/rollwright/voterroll/internal/llm"
)

// buildPrompt assembles the fixed extraction instruction. The JSON Schema is
// embedded verbatim so the model and the local validator agree on shape.
func buildPrompt() string {
	parts := []string{
		"You are an electoral roll parser. Extract every voter entry from the supplied page.",
		"Return ONLY JSON matching the provided schema, with a top-level \"voters\" array.",
		"EPIC numbers are 3 uppercase letters followed by 7 digits; omit the field if unreadable.",
		"Use \"M\"/\"F\"/\"O\" for gender; पुरुष means M, स्त्री/महिला means F.",
		"Document-wide values (constituency names, part number and name) go under \"meta\".",
		"Never output null. If a field is not present, omit it.",
		"JSON Schema:\n" + mustJSON(llm.BuildVoterJSONSchema()),
	}
	return strings.Join(parts, " ")
}

func mustJSON(v any) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}
