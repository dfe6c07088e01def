package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/verbatim/internal/store"
)

// RunStore is the slice of the result store the API needs; nil means
// run persistence is not configured.
type RunStore interface {
	GetRun(ctx context.Context, id uuid.UUID) (*store.Run, error)
	RecentRuns(ctx context.Context, limit int) ([]store.Run, error)
}

// listRuns handles GET /api/v1/verbatim/runs.
func (s *Server) listRuns(w http.ResponseWriter, r *http.Request) {
	if s.runs == nil {
		http.Error(w, "run persistence not configured", http.StatusServiceUnavailable)
		return
	}

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	runs, err := s.runs.RecentRuns(r.Context(), limit)
	if err != nil {
		http.Error(w, "failed to list runs", http.StatusInternalServerError)
		return
	}
	if runs == nil {
		runs = []store.Run{}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]any{"runs": runs})
}

// getRun handles GET /api/v1/verbatim/runs/{id}.
func (s *Server) getRun(w http.ResponseWriter, r *http.Request) {
	if s.runs == nil {
		http.Error(w, "run persistence not configured", http.StatusServiceUnavailable)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid run id", http.StatusBadRequest)
		return
	}

	run, err := s.runs.GetRun(r.Context(), id)
	if err != nil {
		http.Error(w, "run not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(run)
}
