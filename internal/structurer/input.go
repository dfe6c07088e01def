package structurer

import (
	"fmt"
	"strings"
)

// textFieldPriority is the fixed order in which keyed inputs are probed
// for raw transcript text.
var textFieldPriority = []string{"text", "content", "free_text", "original_data"}

// extractRawText pulls transcript text and an optional filename out of
// the heterogeneous input shapes callers send: a plain string, a keyed
// record, or a list of turn-like records to re-render.
func extractRawText(input any) (text, filename string) {
	switch v := input.(type) {
	case nil:
		return "", ""
	case string:
		return v, ""
	case []byte:
		return string(v), ""
	case map[string]any:
		if name, ok := v["filename"].(string); ok {
			filename = name
		}
		for _, key := range textFieldPriority {
			inner, ok := v[key]
			if !ok {
				continue
			}
			if nested, _ := extractRawText(inner); nested != "" {
				return nested, filename
			}
		}
		return "", filename
	case []any:
		return renderTurnList(v), ""
	}
	return "", ""
}

// renderTurnList synthesizes transcript text from a list of turn-like
// records carrying speaker_id and dialogue fields.
func renderTurnList(items []any) string {
	var sb strings.Builder
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		dialogue, _ := m["dialogue"].(string)
		if strings.TrimSpace(dialogue) == "" {
			continue
		}
		speaker, _ := m["speaker_id"].(string)
		if strings.TrimSpace(speaker) == "" {
			speaker = "Unknown"
		}
		fmt.Fprintf(&sb, "%s: %s\n", strings.TrimSpace(speaker), strings.TrimSpace(dialogue))
	}
	return sb.String()
}
