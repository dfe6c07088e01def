// Package segment defines the speaker-turn record that every pipeline
// stage produces and consumes, plus the final validation and role
// normalization passes.
package segment

import "strings"

// Role is the speaker's function in the conversation.
type Role string

const (
	RoleInterviewer Role = "Interviewer"
	RoleInterviewee Role = "Interviewee"
	RoleParticipant Role = "Participant"
)

// Segment is one speaking turn.
type Segment struct {
	SpeakerID string `json:"speaker_id"`
	Role      Role   `json:"role"`
	Dialogue  string `json:"dialogue"`
}

// ParseRole maps a free-form role string onto the three-value enum.
// Unrecognized values report ok=false; callers coerce those to Participant.
func ParseRole(s string) (Role, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "interviewer":
		return RoleInterviewer, true
	case "interviewee":
		return RoleInterviewee, true
	case "participant":
		return RoleParticipant, true
	}
	return RoleParticipant, false
}

// Sanitize enforces the output invariants on a candidate segment list:
// string fields are trimmed, a segment with empty dialogue is dropped,
// a missing speaker becomes "Unknown" and an invalid role becomes
// Participant. It never fails; unsalvageable segments are skipped.
func Sanitize(segs []Segment) []Segment {
	out := make([]Segment, 0, len(segs))
	for _, s := range segs {
		s.Dialogue = strings.TrimSpace(s.Dialogue)
		if s.Dialogue == "" {
			continue
		}
		s.SpeakerID = strings.TrimSpace(s.SpeakerID)
		if s.SpeakerID == "" {
			s.SpeakerID = "Unknown"
		}
		if role, ok := ParseRole(string(s.Role)); ok {
			s.Role = role
		} else {
			s.Role = RoleParticipant
		}
		out = append(out, s)
	}
	return out
}
