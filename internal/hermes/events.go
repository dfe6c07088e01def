package hermes

import "github.com/MikeSquared-Agency/verbatim/internal/segment"

// TranscriptEvent is the NATS payload Chronicle publishes when a raw
// transcript is stored.
type TranscriptEvent struct {
	SessionID  string `json:"session_id"`
	OwnerUUID  string `json:"owner_uuid"`
	SessionRef string `json:"session_ref"`
	Title      string `json:"title"`
	Duration   string `json:"duration"`
	Surface    string `json:"surface"` // e.g. "cc", "slack", "web"
	Transcript string `json:"transcript"`
}

// StructuredEvent is emitted after a transcript has been structured,
// carrying the validated speaker turns and which pipeline path
// produced them.
type StructuredEvent struct {
	RunID          string            `json:"run_id"`
	SessionRef     string            `json:"session_ref"`
	OwnerUUID      string            `json:"owner_uuid"`
	Path           string            `json:"path"`
	RepairStrategy string            `json:"repair_strategy,omitempty"`
	CacheHit       bool              `json:"cache_hit"`
	SegmentCount   int               `json:"segment_count"`
	Segments       []segment.Segment `json:"segments"`
}
