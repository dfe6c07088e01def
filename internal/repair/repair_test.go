package repair

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/MikeSquared-Agency/verbatim/internal/segment"
)

func TestDecode_AlreadyDecodedValue(t *testing.T) {
	value := []any{
		map[string]any{"speaker_id": "A", "role": "Interviewer", "dialogue": "Hi"},
		map[string]any{"speaker_id": "B", "role": "Interviewee", "dialogue": "Hello"},
	}

	res := Decode(value)
	if res.Strategy != StrategyDirect {
		t.Errorf("strategy = %q, want direct", res.Strategy)
	}
	if len(res.Segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(res.Segments))
	}
}

func TestDecode_StrictArray(t *testing.T) {
	raw := `[{"speaker_id":"A","role":"Interviewer","dialogue":"Hi"},{"speaker_id":"B","role":"Interviewee","dialogue":"Hello"}]`

	res := Decode(raw)
	if res.Strategy != StrategyStrict {
		t.Errorf("strategy = %q, want strict", res.Strategy)
	}
	if len(res.Segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(res.Segments))
	}
	if res.Segments[0].SpeakerID != "A" || res.Segments[0].Role != segment.RoleInterviewer {
		t.Errorf("unexpected first segment: %+v", res.Segments[0])
	}
}

func TestDecode_WrapperKeys(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"segments", `{"segments":[{"speaker_id":"A","role":"Participant","dialogue":"hi"}]}`},
		{"transcript", `{"transcript":[{"speaker_id":"A","role":"Participant","dialogue":"hi"}]}`},
		{"turns", `{"turns":[{"speaker_id":"A","role":"Participant","dialogue":"hi"}]}`},
		{"result", `{"result":[{"speaker_id":"A","role":"Participant","dialogue":"hi"}]}`},
		{"data", `{"data":[{"speaker_id":"A","role":"Participant","dialogue":"hi"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Decode(tt.raw)
			if len(res.Segments) != 1 {
				t.Fatalf("expected 1 segment, got %d", len(res.Segments))
			}
			if res.Segments[0].Dialogue != "hi" {
				t.Errorf("unexpected dialogue %q", res.Segments[0].Dialogue)
			}
		})
	}
}

func TestDecode_MarkdownFence(t *testing.T) {
	raw := "Here you go:\n```json\n[{\"speaker_id\":\"A\",\"role\":\"Interviewer\",\"dialogue\":\"Hi\"}]\n```\nLet me know if you need more."

	res := Decode(raw)
	if res.Strategy != StrategyFence {
		t.Errorf("strategy = %q, want fence", res.Strategy)
	}
	if len(res.Segments) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(res.Segments))
	}
}

func TestDecode_MissingCommaBetweenObjects(t *testing.T) {
	raw := `[{"speaker_id":"A","role":"Interviewer","dialogue":"Hi"} {"speaker_id":"B","role":"Interviewee","dialogue":"Hello"}]`

	res := Decode(raw)
	if len(res.Segments) != 2 {
		t.Fatalf("expected 2 segments, got %d (strategy %q)", len(res.Segments), res.Strategy)
	}
	if res.Segments[1].SpeakerID != "B" {
		t.Errorf("unexpected second segment: %+v", res.Segments[1])
	}
}

func TestDecode_DelimiterFixes(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want int
	}{
		{"trailing comma", `[{"speaker_id":"A","role":"Participant","dialogue":"hi"},]`, 1},
		{"bare keys", `[{speaker_id: "A", role: "Participant", dialogue: "hi"}]`, 1},
		{"single quotes", `[{'speaker_id': 'A', 'role': 'Participant', 'dialogue': 'hi'}]`, 1},
		{"unclosed brackets", `[{"speaker_id":"A","role":"Participant","dialogue":"hi"`, 1},
		{"adjacent strings", `{"segments":[{"speaker_id":"A","role":"Participant","dialogue":"hi"}] "extra": []}`, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Decode(tt.raw)
			if len(res.Segments) != tt.want {
				t.Fatalf("expected %d segments, got %d (strategy %q)", tt.want, len(res.Segments), res.Strategy)
			}
		})
	}
}

func TestDecode_MissingColonAfterKey(t *testing.T) {
	// A dropped colon defeats the textual delimiter fixes; only the
	// syntax-error-offset insertion recovers it.
	raw := `[{"speaker_id" "A", "role": "Interviewer", "dialogue": "Hi"}]`

	res := Decode(raw)
	if res.Strategy != StrategyPosition {
		t.Errorf("strategy = %q, want position", res.Strategy)
	}
	if len(res.Segments) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(res.Segments))
	}
	if res.Segments[0].SpeakerID != "A" || res.Segments[0].Dialogue != "Hi" {
		t.Errorf("unexpected segment: %+v", res.Segments[0])
	}
}

func TestDecode_FragmentScan(t *testing.T) {
	raw := `The structured transcript is shown below.

[{"speaker_id":"A","role":"Interviewer","dialogue":"Hi"},{"speaker_id":"B","role":"Interviewee","dialogue":"Hello"}]

Hope that helps!`

	res := Decode(raw)
	if res.Strategy != StrategyFragment {
		t.Errorf("strategy = %q, want fragment", res.Strategy)
	}
	if len(res.Segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(res.Segments))
	}
}

func TestDecode_FieldRepair(t *testing.T) {
	raw := `[
		{"role":"Interviewer","dialogue":"Who are you?"},
		{"speaker_id":"B","dialogue":"No role here"},
		{"speaker_id":"C","role":"narrator","dialogue":"Bad role"},
		{"speaker_id":"D","role":"Interviewee"}
	]`

	res := Decode(raw)
	if len(res.Segments) != 3 {
		t.Fatalf("expected 3 segments (no-dialogue dropped), got %d", len(res.Segments))
	}
	if res.Segments[0].SpeakerID != "Unknown" {
		t.Errorf("missing speaker should become Unknown, got %q", res.Segments[0].SpeakerID)
	}
	if res.Segments[1].Role != segment.RoleParticipant {
		t.Errorf("missing role should become Participant, got %q", res.Segments[1].Role)
	}
	if res.Segments[2].Role != segment.RoleParticipant {
		t.Errorf("invalid role should become Participant, got %q", res.Segments[2].Role)
	}
}

func TestDecode_TotalFailure(t *testing.T) {
	tests := []struct {
		name string
		raw  any
	}{
		{"empty string", ""},
		{"whitespace", "   \n\t"},
		{"prose only", "I could not structure this transcript, sorry."},
		{"nil", nil},
		{"number", 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Decode(tt.raw)
			if len(res.Segments) != 0 {
				t.Errorf("expected no segments, got %+v", res.Segments)
			}
			if res.Strategy != "" {
				t.Errorf("expected empty strategy, got %q", res.Strategy)
			}
		})
	}
}

// Re-running the chain on its own re-serialized output must yield the
// same list.
func TestDecode_Idempotent(t *testing.T) {
	raw := `[{"speaker_id":"A","role":"Interviewer","dialogue":"Hi"} {"speaker_id":"B","role":"Interviewee","dialogue":"Hello"}]`

	first := Decode(raw)
	if len(first.Segments) == 0 {
		t.Fatal("first decode produced nothing")
	}

	reserialized, err := json.Marshal(first.Segments)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	second := Decode(string(reserialized))
	if !reflect.DeepEqual(first.Segments, second.Segments) {
		t.Errorf("repair not idempotent:\nfirst:  %+v\nsecond: %+v", first.Segments, second.Segments)
	}
}
