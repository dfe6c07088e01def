package heuristic

import (
	"strings"
	"testing"

	"github.com/MikeSquared-Agency/verbatim/internal/segment"
)

func TestExtract_Empty(t *testing.T) {
	if segs := Extract(""); segs != nil {
		t.Errorf("expected nil for empty input, got %+v", segs)
	}
	if segs := Extract("  \n\t "); segs != nil {
		t.Errorf("expected nil for whitespace input, got %+v", segs)
	}
}

func TestExtract_TwoSpeakers(t *testing.T) {
	text := "Interviewer: How are you?\nJohn: I'm fine, thanks."

	segs := Extract(text)
	if len(segs) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segs))
	}
	if segs[0].SpeakerID != "Interviewer" || segs[0].Role != segment.RoleInterviewer {
		t.Errorf("unexpected first segment: %+v", segs[0])
	}
	if segs[0].Dialogue != "How are you?" {
		t.Errorf("unexpected dialogue: %q", segs[0].Dialogue)
	}
	if segs[1].SpeakerID != "John" || segs[1].Role != segment.RoleInterviewee {
		t.Errorf("unexpected second segment: %+v", segs[1])
	}
}

func TestExtract_QuestionCountDecidesInterviewer(t *testing.T) {
	// No role-bearing labels: the speaker asking more questions wins.
	text := strings.Join([]string{
		"Sam: What was the hardest part? And why?",
		"Jo: Hiring, without a doubt.",
		"Sam: How did you solve it?",
		"Jo: We trained people ourselves.",
	}, "\n")

	segs := Extract(text)
	if len(segs) != 4 {
		t.Fatalf("expected 4 segments, got %d", len(segs))
	}
	for _, s := range segs {
		want := segment.RoleInterviewee
		if s.SpeakerID == "Sam" {
			want = segment.RoleInterviewer
		}
		if s.Role != want {
			t.Errorf("speaker %s: role = %q, want %q", s.SpeakerID, s.Role, want)
		}
	}
}

func TestExtract_TimestampedTurns(t *testing.T) {
	text := strings.Join([]string{
		"[00:01:02] Interviewer: Where did it all start?",
		"[00:01:15] Jane: In a garage, like everyone else.",
		"[00:02:30] Interviewer: Of course?",
		"[00:02:41] Jane: Truly.",
	}, "\n")

	segs := Extract(text)
	if len(segs) != 4 {
		t.Fatalf("expected 4 segments, got %d", len(segs))
	}
	if segs[0].SpeakerID != "Interviewer" {
		t.Errorf("timestamp should be stripped from the label, got %q", segs[0].SpeakerID)
	}
	if strings.Contains(segs[1].Dialogue, "00:02") {
		t.Errorf("dialogue should not contain the next line's timestamp, got %q", segs[1].Dialogue)
	}
}

func TestExtract_HeaderStripping(t *testing.T) {
	text := strings.Join([]string{
		"INTERVIEW TRANSCRIPT",
		"Date: 2024-03-01",
		"Attendees: Sam, Jo",
		"",
		"Sam: Shall we begin?",
		"Jo: Sure.",
	}, "\n")

	segs := Extract(text)
	if len(segs) != 2 {
		t.Fatalf("expected 2 segments after header strip, got %d: %+v", len(segs), segs)
	}
	for _, s := range segs {
		if s.SpeakerID == "Attendees" || s.SpeakerID == "Date" {
			t.Errorf("header line leaked into segments: %+v", s)
		}
	}
}

func TestExtract_MultiSpeakerKeywordRoles(t *testing.T) {
	text := strings.Join([]string{
		"Moderator: Welcome, everyone.",
		"Participant 1: Glad to be here.",
		"Participant 2: Same.",
		"Moderator: First topic.",
	}, "\n")

	segs := Extract(text)
	if len(segs) != 4 {
		t.Fatalf("expected 4 segments, got %d", len(segs))
	}
	if segs[0].Role != segment.RoleInterviewer {
		t.Errorf("Moderator role = %q, want Interviewer", segs[0].Role)
	}
	if segs[1].Role != segment.RoleInterviewee || segs[2].Role != segment.RoleInterviewee {
		t.Errorf("participants should be Interviewee, got %q and %q", segs[1].Role, segs[2].Role)
	}
}

func TestExtract_MultiSpeakerQuestionRatio(t *testing.T) {
	text := strings.Join([]string{
		"Ana: What do you think? Any concerns?",
		"Ben: None from me.",
		"Cal: Me neither.",
		"Ana: Next question then?",
	}, "\n")

	segs := Extract(text)
	roles := map[string]segment.Role{}
	for _, s := range segs {
		roles[s.SpeakerID] = s.Role
	}
	if roles["Ana"] != segment.RoleInterviewer {
		t.Errorf("Ana (question ratio > 0.5) should be Interviewer, got %q", roles["Ana"])
	}
	if roles["Ben"] != segment.RoleParticipant || roles["Cal"] != segment.RoleParticipant {
		t.Errorf("Ben/Cal should stay Participant, got %q and %q", roles["Ben"], roles["Cal"])
	}
}

func TestExtract_NoTurnsFallback(t *testing.T) {
	text := "Just a paragraph of notes with no speaker structure whatsoever."

	segs := Extract(text)
	if len(segs) != 1 {
		t.Fatalf("expected single fallback segment, got %d", len(segs))
	}
	if segs[0].SpeakerID != "Unknown" || segs[0].Role != segment.RoleParticipant {
		t.Errorf("unexpected fallback segment: %+v", segs[0])
	}
	if segs[0].Dialogue != text {
		t.Errorf("fallback should carry the whole input, got %q", segs[0].Dialogue)
	}
}

func TestExtract_MultilineDialogue(t *testing.T) {
	text := strings.Join([]string{
		"Interviewer: Tell me everything.",
		"Maya: It started small.",
		"Then it grew.",
		"And kept growing.",
		"Interviewer: Impressive?",
	}, "\n")

	segs := Extract(text)
	if len(segs) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(segs))
	}
	if !strings.Contains(segs[1].Dialogue, "kept growing") {
		t.Errorf("continuation lines should fold into the turn, got %q", segs[1].Dialogue)
	}
}
