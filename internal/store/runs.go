package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/verbatim/internal/segment"
)

// Run is one structuring run's persisted output: the validated segments
// plus which pipeline path produced them.
type Run struct {
	ID             uuid.UUID
	SessionRef     string
	OwnerUUID      uuid.UUID
	Path           string
	RepairStrategy string
	CacheHit       bool
	SegmentCount   int
	Segments       []segment.Segment
	CreatedAt      time.Time
}

// SaveRun persists a structuring run and returns its ID.
func (s *Store) SaveRun(ctx context.Context, run Run) (uuid.UUID, error) {
	id := uuid.New()

	segs, err := json.Marshal(run.Segments)
	if err != nil {
		return uuid.Nil, fmt.Errorf("marshal segments: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO structuring_runs
			(id, session_ref, owner_uuid, path, repair_strategy, cache_hit, segment_count, segments)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		id, run.SessionRef, run.OwnerUUID, run.Path, run.RepairStrategy,
		run.CacheHit, len(run.Segments), segs,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert structuring run: %w", err)
	}
	return id, nil
}

// GetRun fetches a single run by ID.
func (s *Store) GetRun(ctx context.Context, id uuid.UUID) (*Run, error) {
	var run Run
	var segs []byte
	err := s.pool.QueryRow(ctx, `
		SELECT id, session_ref, owner_uuid, path, repair_strategy, cache_hit, segment_count, segments, created_at
		FROM structuring_runs WHERE id = $1`, id,
	).Scan(&run.ID, &run.SessionRef, &run.OwnerUUID, &run.Path, &run.RepairStrategy,
		&run.CacheHit, &run.SegmentCount, &segs, &run.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("get structuring run: %w", err)
	}
	if err := json.Unmarshal(segs, &run.Segments); err != nil {
		return nil, fmt.Errorf("unmarshal segments: %w", err)
	}
	return &run, nil
}

// RecentRuns returns the most recent runs, newest first, without their
// segment payloads.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.pool.Query(ctx, `
		SELECT id, session_ref, owner_uuid, path, repair_strategy, cache_hit, segment_count, created_at
		FROM structuring_runs
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.ID, &run.SessionRef, &run.OwnerUUID, &run.Path,
			&run.RepairStrategy, &run.CacheHit, &run.SegmentCount, &run.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan run row: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run rows: %w", err)
	}
	return runs, nil
}
