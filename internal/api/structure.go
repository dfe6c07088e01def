package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/MikeSquared-Agency/verbatim/internal/segment"
	"github.com/MikeSquared-Agency/verbatim/internal/structurer"
)

// structureResponse is the synchronous structuring result returned to
// API callers.
type structureResponse struct {
	Segments    []segment.Segment      `json:"segments"`
	Diagnostics structurer.Diagnostics `json:"diagnostics"`
}

// structure handles POST /api/v1/verbatim/structure. The body is either
// a JSON value (keyed record, turn list, or JSON string) or plain text;
// both land on the structurer's heterogeneous input handling.
func (s *Server) structure(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}

	var input any
	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "application/json") {
		if err := json.Unmarshal(body, &input); err != nil {
			http.Error(w, "invalid JSON body", http.StatusBadRequest)
			return
		}
	} else {
		input = string(body)
	}

	segs, diag := s.structurer.Structure(r.Context(), input)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(structureResponse{Segments: segs, Diagnostics: diag})
}
