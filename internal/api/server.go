package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/proftrain/patientsim/internal/events"
	"github.com/proftrain/patientsim/internal/scenario"
	"github.com/proftrain/patientsim/internal/snapshot"
)

// Server is the HTTP boundary. Scenarios, snapshots and events are all
// optional: a nil store disables the matching feature instead of failing.
type Server struct {
	router    *chi.Mux
	port      int
	logger    *slog.Logger
	registry  *Registry
	scenarios *scenario.Store
	snapshots *snapshot.Store
	events    *events.Publisher
}

func NewServer(port int, scenarios *scenario.Store, snapshots *snapshot.Store, pub *events.Publisher, logger *slog.Logger) *Server {
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	s := &Server{
		router:    router,
		port:      port,
		logger:    logger,
		registry:  NewRegistry(),
		scenarios: scenarios,
		snapshots: snapshots,
		events:    pub,
	}

	router.Get("/health", s.health)

	router.Route("/api/v1", func(r chi.Router) {
		r.Post("/sessions", s.createSession)
		r.Post("/sessions/{id}/messages", s.postMessage)
		r.Get("/sessions/{id}/analysis", s.sessionAnalysis)

		r.Post("/scenarios", s.createScenario)
		r.Get("/scenarios", s.listScenarios)
		r.Get("/scenarios/{id}", s.getScenario)
		r.Delete("/scenarios/{id}", s.deleteScenario)
	})

	return s
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("API server starting", "addr", addr)
	return http.ListenAndServe(addr, s.router)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
