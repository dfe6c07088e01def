package segment

import "strings"

// speakerStats aggregates per-speaker evidence used to pick the
// canonical interviewer.
type speakerStats struct {
	speaker       string
	turns         int
	totalLen      int
	questionMarks int
	explicit      int // segments already labeled Interviewer
}

func (st *speakerStats) avgLen() float64 {
	if st.turns == 0 {
		return 0
	}
	return float64(st.totalLen) / float64(st.turns)
}

func (st *speakerStats) questionRatio() float64 {
	if st.turns == 0 {
		return 0
	}
	return float64(st.questionMarks) / float64(st.turns)
}

// Normalize enforces one consistent role per speaker across a transcript.
// A single canonical interviewer is chosen — by explicit Interviewer
// labels first, then question-mark ratio, then shortest average dialogue,
// then first-seen order — and every segment with an ambiguous role
// (empty, Participant or unrecognized) is rewritten to Interviewer or
// Interviewee accordingly. Segments that already carry an explicit
// Interviewer or Interviewee role are left untouched.
func Normalize(segs []Segment) []Segment {
	stats := collectStats(segs)
	if len(stats) <= 1 {
		return segs
	}

	canonical := pickInterviewer(stats)

	out := make([]Segment, len(segs))
	for i, s := range segs {
		if s.Role == RoleInterviewer || s.Role == RoleInterviewee {
			out[i] = s
			continue
		}
		if s.SpeakerID == canonical {
			s.Role = RoleInterviewer
		} else {
			s.Role = RoleInterviewee
		}
		out[i] = s
	}
	return out
}

func collectStats(segs []Segment) []*speakerStats {
	byID := make(map[string]*speakerStats)
	var ordered []*speakerStats
	for _, s := range segs {
		st, ok := byID[s.SpeakerID]
		if !ok {
			st = &speakerStats{speaker: s.SpeakerID}
			byID[s.SpeakerID] = st
			ordered = append(ordered, st)
		}
		st.turns++
		st.totalLen += len(s.Dialogue)
		st.questionMarks += strings.Count(s.Dialogue, "?")
		if s.Role == RoleInterviewer {
			st.explicit++
		}
	}
	return ordered
}

// pickInterviewer selects the canonical interviewer among ≥2 speakers.
func pickInterviewer(stats []*speakerStats) string {
	// Explicit labels win: the speaker with the most segments already
	// marked Interviewer.
	best := stats[0]
	for _, st := range stats[1:] {
		if st.explicit > best.explicit {
			best = st
		}
	}
	if best.explicit > 0 {
		return best.speaker
	}

	// No explicit labels anywhere: fall back to question ratio, then
	// shortest average dialogue, then first-seen order.
	best = stats[0]
	for _, st := range stats[1:] {
		switch {
		case st.questionRatio() > best.questionRatio():
			best = st
		case st.questionRatio() == best.questionRatio() && st.avgLen() < best.avgLen():
			best = st
		}
	}
	return best.speaker
}
