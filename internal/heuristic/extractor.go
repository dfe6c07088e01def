// Package heuristic derives speaker turns from raw transcript text with
// no dependency on the generation service. It is the pipeline's last
// line of defense when generation and repair both come up empty.
package heuristic

import (
	"regexp"
	"strings"

	"github.com/MikeSquared-Agency/verbatim/internal/segment"
)

// headerScanLines bounds how far into the text header stripping looks.
const headerScanLines = 10

// headerPatterns mark lines that belong to a transcript preamble rather
// than dialogue. Word boundaries keep "Interviewer:" from matching the
// "interview" keyword.
var headerPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\btranscript\b`),
	regexp.MustCompile(`(?i)\binterview\b`),
	regexp.MustCompile(`(?i)\bconversation\b`),
	regexp.MustCompile(`(?i)^\s*date\s*:`),
	regexp.MustCompile(`(?i)^\s*attendees\s*:`),
}

const labelExpr = `[A-Za-z][A-Za-z0-9 ._'-]{0,40}?`

// Two candidate turn patterns: a plain "Label:" at the start of a line,
// and the same with an optional leading timestamp token. Whichever
// yields more matches wins.
var turnPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?m)^[ \t]*(` + labelExpr + `)[ \t]*:[ \t]*`),
	regexp.MustCompile(`(?m)^[ \t]*(?:\[?\d{1,2}:\d{2}(?::\d{2})?\]?[ \t]+)?(` + labelExpr + `)[ \t]*:[ \t]*`),
}

// Speaker-label keywords used for role inference when more than two
// speakers are present.
var (
	interviewerKeywords = []string{"interviewer", "moderator", "facilitator", "host"}
	intervieweeKeywords = []string{"interviewee", "participant", "respondent", "guest"}
)

type speakerStats struct {
	label         string
	turns         int
	totalLen      int
	questionMarks int
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

type turn struct {
	speaker  string
	dialogue string
}

// Extract derives segments from raw text via pattern matching and
// per-speaker statistics. Empty input yields nil; input with no
// recognizable turns yields a single Participant segment holding the
// whole text.
func Extract(text string) []segment.Segment {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}

	body := stripHeader(trimmed)
	turns := matchTurns(body)
	if len(turns) == 0 {
		return []segment.Segment{{
			SpeakerID: "Unknown",
			Role:      segment.RoleParticipant,
			Dialogue:  trimmed,
		}}
	}

	stats := collectStats(turns)
	roles := inferRoles(stats)

	segs := make([]segment.Segment, 0, len(turns))
	for _, tn := range turns {
		segs = append(segs, segment.Segment{
			SpeakerID: tn.speaker,
			Role:      roles[tn.speaker],
			Dialogue:  tn.dialogue,
		})
	}
	return segs
}

// stripHeader drops a leading preamble: if any of the first ten lines
// matches a header keyword, everything up to and including the last
// matching line goes.
func stripHeader(text string) string {
	lines := strings.Split(text, "\n")
	limit := headerScanLines
	if len(lines) < limit {
		limit = len(lines)
	}

	last := -1
	for i := 0; i < limit; i++ {
		for _, re := range headerPatterns {
			if re.MatchString(lines[i]) {
				last = i
				break
			}
		}
	}
	if last < 0 {
		return text
	}
	if last == len(lines)-1 {
		return ""
	}
	return strings.Join(lines[last+1:], "\n")
}

// matchTurns applies both candidate patterns and keeps the one with
// more matches. A turn's dialogue runs from the end of its label to the
// start of the next label (or end of text).
func matchTurns(text string) []turn {
	var best [][]int
	var bestRe *regexp.Regexp
	for _, re := range turnPatterns {
		matches := re.FindAllStringSubmatchIndex(text, -1)
		if len(matches) > len(best) {
			best = matches
			bestRe = re
		}
	}
	if bestRe == nil || len(best) == 0 {
		return nil
	}

	turns := make([]turn, 0, len(best))
	for i, m := range best {
		label := strings.TrimSpace(text[m[2]:m[3]])
		end := len(text)
		if i+1 < len(best) {
			end = best[i+1][0]
		}
		dialogue := strings.TrimSpace(text[m[1]:end])
		if label == "" || dialogue == "" {
			continue
		}
		turns = append(turns, turn{speaker: label, dialogue: dialogue})
	}
	return turns
}

// collectStats accumulates per-speaker turn counts, dialogue lengths
// and question-mark counts, preserving first-seen order.
func collectStats(turns []turn) []*speakerStats {
	byLabel := make(map[string]*speakerStats)
	var ordered []*speakerStats
	for _, tn := range turns {
		st, ok := byLabel[tn.speaker]
		if !ok {
			st = &speakerStats{label: tn.speaker}
			byLabel[tn.speaker] = st
			ordered = append(ordered, st)
		}
		st.turns++
		st.totalLen += len(tn.dialogue)
		st.questionMarks += strings.Count(tn.dialogue, "?")
	}
	return ordered
}

// inferRoles assigns one role per speaker. With exactly two speakers the
// interviewer is the one asking more questions (shorter average dialogue
// breaks ties, then first-seen order). Otherwise label keywords decide
// first, then a question-per-turn ratio above 0.5 marks an interviewer.
func inferRoles(stats []*speakerStats) map[string]segment.Role {
	roles := make(map[string]segment.Role, len(stats))

	if len(stats) == 2 {
		interviewer := stats[0]
		other := stats[1]
		switch {
		case other.questionMarks > interviewer.questionMarks:
			interviewer, other = other, interviewer
		case other.questionMarks == interviewer.questionMarks && other.avgLen() < interviewer.avgLen():
			interviewer, other = other, interviewer
		}
		roles[interviewer.label] = segment.RoleInterviewer
		roles[other.label] = segment.RoleInterviewee
		return roles
	}

	for _, st := range stats {
		lower := strings.ToLower(st.label)
		switch {
		case containsAny(lower, interviewerKeywords):
			roles[st.label] = segment.RoleInterviewer
		case containsAny(lower, intervieweeKeywords):
			roles[st.label] = segment.RoleInterviewee
		case st.questionRatio() > 0.5:
			roles[st.label] = segment.RoleInterviewer
		default:
			roles[st.label] = segment.RoleParticipant
		}
	}
	return roles
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
