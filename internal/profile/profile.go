// Package profile derives a content profile from a raw transcript. The
// profile steers prompt construction and fallback decisions downstream;
// it is computed once per input and never mutated.
package profile

import (
	"regexp"
	"strings"
)

// Complexity buckets a transcript by word count.
type Complexity string

const (
	ComplexityLow    Complexity = "low"
	ComplexityMedium Complexity = "medium"
	ComplexityHigh   Complexity = "high"
)

// Profile holds the derived flags for one raw transcript.
type Profile struct {
	ProblemFocused        bool       `json:"problem_focused"`
	HasTimestamps         bool       `json:"has_timestamps"`
	HasSpeakerLabels      bool       `json:"has_speaker_labels"`
	EstimatedSpeakerCount int        `json:"estimated_speaker_count"`
	IsAlreadyStructured   bool       `json:"is_already_structured"`
	Complexity            Complexity `json:"complexity"`
	IsMultiInterview      bool       `json:"is_multi_interview"`
	InterviewCount        int        `json:"interview_count"`
}

// problemTerms flag transcripts that dwell on problems; two or more hits
// across the whole text set ProblemFocused.
var problemTerms = []string{
	"problem",
	"challenge",
	"pain point",
	"frustration",
	"struggle",
	"difficulty",
	"issue",
	"obstacle",
}

var timestampPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\[\d{1,2}:\d{2}:\d{2}\]`),
	regexp.MustCompile(`\[\d{1,2}:\d{2}\]`),
	regexp.MustCompile(`\b\d{1,2}:\d{2}:\d{2}\b`),
	regexp.MustCompile(`(?i)\b\d{1,2}:\d{2}\s*[ap]m\b`),
}

// speakerLabelPatterns match "Name:", "First Last:" and role labels at
// the start of a line. Distinct matched labels give the speaker count.
var speakerLabelPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?mi)^[ \t]*(interviewer|interviewee|participant(?:[ \t]+\d+)?)[ \t]*:`),
	regexp.MustCompile(`(?m)^[ \t]*([A-Z][A-Za-z'-]*(?:[ \t]+[A-Z][A-Za-z'-]*)?)[ \t]*:`),
}

var multiInterviewPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bINTERVIEW\s+\d+\s+OF\s+\d+\b`),
	regexp.MustCompile(`(?mi)^[ \t]*Interview\s+\d+[ \t]*:`),
	regexp.MustCompile(`(?i)={2,}\s*INTERVIEW\s+\d+\s*={2,}`),
}

// Analyze computes a profile for raw transcript text. It is pure and
// never fails; empty input yields an all-false profile with medium
// complexity.
func Analyze(text string) Profile {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Profile{Complexity: ComplexityMedium}
	}

	p := Profile{
		ProblemFocused:      countProblemTerms(trimmed) >= 2,
		HasTimestamps:       matchesAny(trimmed, timestampPatterns),
		IsAlreadyStructured: isBracketed(trimmed),
		Complexity:          complexityOf(trimmed),
	}

	labels := distinctSpeakerLabels(trimmed)
	p.HasSpeakerLabels = len(labels) > 0
	p.EstimatedSpeakerCount = len(labels)

	markers := distinctMultiInterviewMarkers(trimmed)
	p.InterviewCount = len(markers)
	p.IsMultiInterview = len(markers) > 1

	return p
}

func countProblemTerms(text string) int {
	lower := strings.ToLower(text)
	n := 0
	for _, term := range problemTerms {
		n += strings.Count(lower, term)
	}
	return n
}

func matchesAny(text string, patterns []*regexp.Regexp) bool {
	for _, re := range patterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

func isBracketed(trimmed string) bool {
	return (strings.HasPrefix(trimmed, "{") && strings.HasSuffix(trimmed, "}")) ||
		(strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]"))
}

func complexityOf(text string) Complexity {
	words := len(strings.Fields(text))
	switch {
	case words > 2000:
		return ComplexityHigh
	case words < 500:
		return ComplexityLow
	default:
		return ComplexityMedium
	}
}

func distinctSpeakerLabels(text string) map[string]struct{} {
	labels := make(map[string]struct{})
	for _, re := range speakerLabelPatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			label := strings.ToLower(strings.TrimSpace(m[1]))
			if label != "" {
				labels[label] = struct{}{}
			}
		}
	}
	return labels
}

func distinctMultiInterviewMarkers(text string) map[string]struct{} {
	markers := make(map[string]struct{})
	for _, re := range multiInterviewPatterns {
		for _, m := range re.FindAllString(text, -1) {
			markers[strings.ToLower(strings.Join(strings.Fields(m), " "))] = struct{}{}
		}
	}
	return markers
}
