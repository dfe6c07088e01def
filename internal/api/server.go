package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MikeSquared-Agency/verbatim/internal/structurer"
)

type Server struct {
	router     *chi.Mux
	port       int
	structurer *structurer.Structurer
	runs       RunStore
}

func NewServer(port int, s *structurer.Structurer, runs RunStore) *Server {
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	srv := &Server{
		router:     router,
		port:       port,
		structurer: s,
		runs:       runs,
	}

	router.Get("/health", srv.health)
	router.Get("/api/v1/verbatim/status", srv.status)
	router.Post("/api/v1/verbatim/structure", srv.structure)
	router.Get("/api/v1/verbatim/runs", srv.listRuns)
	router.Get("/api/v1/verbatim/runs/{id}", srv.getRun)

	return srv
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	slog.Info("API server starting", "addr", addr)
	return http.ListenAndServe(addr, s.router)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"agent":  "verbatim",
		"status": "active",
	})
}
