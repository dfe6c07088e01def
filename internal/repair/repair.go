// Package repair turns unreliable generation output into valid segment
// lists. Strategies are an ordered cascade; each is attempted only when
// the previous one produced nothing usable, and every strategy returns
// "no result" instead of an error.
package repair

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/MikeSquared-Agency/verbatim/internal/segment"
)

// Strategy names reported in Result for diagnostics.
const (
	StrategyDirect    = "direct"
	StrategyStrict    = "strict"
	StrategyFence     = "fence"
	StrategyDelimiter = "delimiter"
	StrategyPosition  = "position"
	StrategyFragment  = "fragment"
)

// wrapperKeys are the alternate object keys the generation service has
// been observed to wrap its segment array in.
var wrapperKeys = []string{
	"segments",
	"transcript",
	"transcript_segments",
	"turns",
	"dialogue",
	"result",
	"data",
}

// Result is the outcome of a repair run: the decoded segments and the
// name of the strategy that produced them (empty when all failed).
type Result struct {
	Segments []segment.Segment
	Strategy string
}

// Decode runs the cascade against a generation response, which may be a
// raw string or an already-decoded value. A total failure returns an
// empty Result; the caller decides whether to fall back to the
// heuristic extractor.
func Decode(resp any) Result {
	switch v := resp.(type) {
	case nil:
		return Result{}
	case string:
		return decodeText(v)
	case []byte:
		return decodeText(string(v))
	case []segment.Segment:
		return Result{Segments: repairFields(asMaps(v)), Strategy: StrategyDirect}
	default:
		if segs := segmentsFromValue(v); len(segs) > 0 {
			return Result{Segments: segs, Strategy: StrategyDirect}
		}
		return Result{}
	}
}

func decodeText(text string) Result {
	work := strings.TrimSpace(text)
	if work == "" {
		return Result{}
	}

	// Strategy: strict parse of the text as-is.
	if segs := parseStrict(work); len(segs) > 0 {
		return Result{Segments: segs, Strategy: StrategyStrict}
	}

	// Strategy: strip markdown fences and retry.
	if inner, ok := stripFences(work); ok {
		if segs := parseStrict(inner); len(segs) > 0 {
			return Result{Segments: segs, Strategy: StrategyFence}
		}
		work = inner
	}

	// Strategy: textual delimiter fixes, then retry.
	repaired := repairDelimiters(work)
	if repaired != work {
		if segs := parseStrict(repaired); len(segs) > 0 {
			return Result{Segments: segs, Strategy: StrategyDelimiter}
		}
	}

	// Strategy: insert the missing delimiter at the reported offset.
	if segs := repairAtErrorPosition(work); len(segs) > 0 {
		return Result{Segments: segs, Strategy: StrategyPosition}
	}

	// Strategy: scan for bracket-balanced fragments and decode each.
	if segs := scanFragments(work); len(segs) > 0 {
		return Result{Segments: segs, Strategy: StrategyFragment}
	}

	return Result{}
}

// parseStrict decodes text as JSON and extracts segments from the
// resulting value, unwrapping known wrapper keys. Returns nil on any
// failure.
func parseStrict(text string) []segment.Segment {
	var v any
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return nil
	}
	return segmentsFromValue(v)
}

// segmentsFromValue extracts segments from a decoded value: an array of
// segment objects, a single segment object, or an object wrapping the
// array under one of the alternate keys.
func segmentsFromValue(v any) []segment.Segment {
	switch val := v.(type) {
	case []any:
		return repairFields(val)
	case map[string]any:
		for _, key := range wrapperKeys {
			if inner, ok := val[key]; ok {
				if arr, ok := inner.([]any); ok {
					if segs := repairFields(arr); len(segs) > 0 {
						return segs
					}
				}
			}
		}
		// A bare object may itself be a single segment.
		return repairFields([]any{val})
	}
	return nil
}

var fenceRe = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")

// stripFences extracts the inner text of a ```json fenced block.
func stripFences(text string) (string, bool) {
	m := fenceRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

// repairFields applies field-level repair to each decoded candidate:
// a missing speaker becomes "Unknown", a missing or invalid role becomes
// Participant, and a candidate with no dialogue is dropped.
func repairFields(items []any) []segment.Segment {
	var segs []segment.Segment
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		dialogue := strings.TrimSpace(stringField(m, "dialogue"))
		if dialogue == "" {
			continue
		}
		speaker := strings.TrimSpace(stringField(m, "speaker_id"))
		if speaker == "" {
			speaker = "Unknown"
		}
		role, ok := segment.ParseRole(stringField(m, "role"))
		if !ok {
			role = segment.RoleParticipant
		}
		segs = append(segs, segment.Segment{
			SpeakerID: speaker,
			Role:      role,
			Dialogue:  dialogue,
		})
	}
	return segs
}

func stringField(m map[string]any, key string) string {
	if v, ok := m[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func asMaps(segs []segment.Segment) []any {
	items := make([]any, len(segs))
	for i, s := range segs {
		items[i] = map[string]any{
			"speaker_id": s.SpeakerID,
			"role":       string(s.Role),
			"dialogue":   s.Dialogue,
		}
	}
	return items
}
