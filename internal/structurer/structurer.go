// Package structurer drives the end-to-end transcript structuring
// pipeline: profile the input, ask the generation service for
// structured turns, repair whatever comes back, and fall back to the
// offline heuristic extractor when generation and repair both fail.
// The contract is "always return a best-effort, valid segment list" —
// no error ever escapes to the caller.
package structurer

import (
	"context"
	"log/slog"
	"strings"

	"github.com/MikeSquared-Agency/verbatim/internal/cache"
	"github.com/MikeSquared-Agency/verbatim/internal/genai"
	"github.com/MikeSquared-Agency/verbatim/internal/heuristic"
	"github.com/MikeSquared-Agency/verbatim/internal/profile"
	"github.com/MikeSquared-Agency/verbatim/internal/repair"
	"github.com/MikeSquared-Agency/verbatim/internal/segment"
)

// Path names for diagnostics.
const (
	PathEmpty      = "empty"
	PathGeneration = "generation"
	PathHeuristic  = "heuristic"
)

// Diagnostics reports which way a structuring run went, for callers
// that want observability; it carries no obligations.
type Diagnostics struct {
	Path           string          `json:"path"`
	RepairStrategy string          `json:"repair_strategy,omitempty"`
	CacheHit       bool            `json:"cache_hit"`
	GenerationErr  string          `json:"generation_error,omitempty"`
	Filename       string          `json:"filename,omitempty"`
	Profile        profile.Profile `json:"profile"`
}

// Structurer coordinates the pipeline. It is the only component that
// talks to the generation service and the cache.
type Structurer struct {
	gen    genai.Generator
	cache  *cache.Cache
	logger *slog.Logger
}

func New(gen genai.Generator, c *cache.Cache, logger *slog.Logger) *Structurer {
	return &Structurer{gen: gen, cache: c, logger: logger}
}

// Structure turns heterogeneous raw input into an ordered, validated
// segment list. It never returns an error: generation failures and
// unrepairable output are recovered via the heuristic extractor, and
// any unexpected internal fault falls back the same way.
func (s *Structurer) Structure(ctx context.Context, input any) (segs []segment.Segment, diag Diagnostics) {
	text, filename := extractRawText(input)
	diag.Filename = filename

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("structuring panicked, falling back to heuristic extraction", "panic", r)
			diag.Path = PathHeuristic
			segs = segment.Sanitize(segment.Normalize(heuristic.Extract(text)))
		}
	}()

	if strings.TrimSpace(text) == "" {
		diag.Path = PathEmpty
		return []segment.Segment{}, diag
	}

	prof := profile.Analyze(text)
	diag.Profile = prof

	raw, cacheHit, genErr := s.generate(ctx, buildRequest(prof, text))
	diag.CacheHit = cacheHit
	if genErr != nil {
		diag.GenerationErr = genErr.Error()
	}

	res := repair.Decode(raw)
	segs = res.Segments
	diag.Path = PathGeneration
	diag.RepairStrategy = res.Strategy

	// Generation produced nothing usable: go offline if the response
	// indicated failure or the profile warrants the extra effort.
	generationFailed := genErr != nil || strings.TrimSpace(raw) == ""
	if len(segs) == 0 && (generationFailed || prof.ProblemFocused || prof.Complexity == profile.ComplexityHigh) {
		s.logger.Info("falling back to heuristic extraction",
			"generation_failed", generationFailed,
			"problem_focused", prof.ProblemFocused,
			"complexity", prof.Complexity,
		)
		segs = heuristic.Extract(text)
		diag.Path = PathHeuristic
		diag.RepairStrategy = ""
	}

	segs = segment.Sanitize(segment.Normalize(segs))

	s.logger.Info("transcript structured",
		"path", diag.Path,
		"segments", len(segs),
		"repair_strategy", diag.RepairStrategy,
		"cache_hit", diag.CacheHit,
	)
	if segs == nil {
		segs = []segment.Segment{}
	}
	return segs, diag
}

// generate resolves the request through the cache, calling the
// generation service on a miss. A failed call returns its error but
// never aborts the pipeline.
func (s *Structurer) generate(ctx context.Context, req genai.Request) (raw string, cacheHit bool, err error) {
	key := cache.Key(req)
	if s.cache != nil {
		if cached, ok := s.cache.Get(key); ok {
			return cached, true, nil
		}
	}

	raw, err = s.gen.Generate(ctx, req)
	if err != nil {
		s.logger.Warn("generation unavailable", "error", err)
		return "", false, err
	}
	if s.cache != nil && strings.TrimSpace(raw) != "" {
		s.cache.Put(key, raw)
	}
	return raw, false, nil
}

// buildRequest assembles the generation request, appending
// profile-conditioned instructions to the base prompt.
func buildRequest(prof profile.Profile, text string) genai.Request {
	var extras []string
	if prof.ProblemFocused {
		extras = append(extras, instrAvoidInterpretation)
	}
	if prof.HasTimestamps {
		extras = append(extras, instrExcludeTimestamps)
	}
	if prof.IsMultiInterview {
		extras = append(extras, instrDistinctInterviews)
	}
	return genai.Request{
		Prompt:            basePrompt,
		InputText:         text,
		ResponseFormat:    "json",
		Temperature:       0.0,
		ExtraInstructions: extras,
	}
}
