// Package processor wires the structuring pipeline to the swarm bus:
// it consumes Chronicle transcript events, runs them through the
// structurer, persists the result and publishes the structured turns.
package processor

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/verbatim/internal/hermes"
	"github.com/MikeSquared-Agency/verbatim/internal/segment"
	"github.com/MikeSquared-Agency/verbatim/internal/store"
	"github.com/MikeSquared-Agency/verbatim/internal/structurer"
)

// transcriptStructurer is the slice of the structurer the processor
// needs; narrow so tests can substitute a fake.
type transcriptStructurer interface {
	Structure(ctx context.Context, input any) ([]segment.Segment, structurer.Diagnostics)
}

// publisher is the slice of the hermes client the processor needs.
type publisher interface {
	Publish(subject string, data any) error
}

// runStore persists structuring runs; nil disables persistence.
type runStore interface {
	SaveRun(ctx context.Context, run store.Run) (uuid.UUID, error)
}

// Processor handles inbound transcript events.
type Processor struct {
	structurer transcriptStructurer
	bus        publisher
	store      runStore
	logger     *slog.Logger
}

func New(s transcriptStructurer, bus publisher, st runStore, logger *slog.Logger) *Processor {
	return &Processor{structurer: s, bus: bus, store: st, logger: logger}
}

// HandleTranscriptStored is the NATS handler for
// swarm.chronicle.transcript.stored.
func (p *Processor) HandleTranscriptStored(subject string, data []byte) {
	ctx := context.Background()

	var evt hermes.TranscriptEvent
	if err := json.Unmarshal(data, &evt); err != nil {
		p.logger.Error("failed to parse transcript event", "error", err)
		return
	}

	ownerUUID, err := uuid.Parse(evt.OwnerUUID)
	if err != nil {
		p.logger.Error("invalid owner uuid", "owner_uuid", evt.OwnerUUID, "error", err)
		return
	}

	p.logger.Info("structuring transcript",
		"session_id", evt.SessionID,
		"session_ref", evt.SessionRef,
		"owner", evt.OwnerUUID,
		"transcript_len", len(evt.Transcript),
	)

	segs, diag := p.structurer.Structure(ctx, evt.Transcript)

	runID := uuid.New()
	if p.store != nil {
		id, err := p.store.SaveRun(ctx, store.Run{
			SessionRef:     evt.SessionRef,
			OwnerUUID:      ownerUUID,
			Path:           diag.Path,
			RepairStrategy: diag.RepairStrategy,
			CacheHit:       diag.CacheHit,
			Segments:       segs,
		})
		if err != nil {
			p.logger.Error("failed to persist structuring run", "session_ref", evt.SessionRef, "error", err)
		} else {
			runID = id
		}
	}

	if p.bus != nil {
		out := hermes.StructuredEvent{
			RunID:          runID.String(),
			SessionRef:     evt.SessionRef,
			OwnerUUID:      evt.OwnerUUID,
			Path:           diag.Path,
			RepairStrategy: diag.RepairStrategy,
			CacheHit:       diag.CacheHit,
			SegmentCount:   len(segs),
			Segments:       segs,
		}
		if err := p.bus.Publish(hermes.SubjectTranscriptStructured, out); err != nil {
			p.logger.Error("failed to publish structured event", "session_ref", evt.SessionRef, "error", err)
		}
	}

	p.logger.Info("transcript structured",
		"session_ref", evt.SessionRef,
		"path", diag.Path,
		"segments", len(segs),
	)
}
