package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/proftrain/patientsim/internal/scenario"
)

func (s *Server) createScenario(w http.ResponseWriter, r *http.Request) {
	if s.scenarios == nil {
		writeError(w, http.StatusServiceUnavailable, "scenario storage not configured")
		return
	}
	var sc scenario.Scenario
	if err := json.NewDecoder(r.Body).Decode(&sc); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	id, err := s.scenarios.Save(r.Context(), sc)
	if err != nil {
		s.logger.Error("scenario save failed", "error", err)
		writeError(w, http.StatusInternalServerError, "scenario save failed")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) listScenarios(w http.ResponseWriter, r *http.Request) {
	if s.scenarios == nil {
		writeError(w, http.StatusServiceUnavailable, "scenario storage not configured")
		return
	}
	list, err := s.scenarios.List(r.Context())
	if err != nil {
		s.logger.Error("scenario list failed", "error", err)
		writeError(w, http.StatusInternalServerError, "scenario list failed")
		return
	}
	if list == nil {
		list = []scenario.Scenario{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) getScenario(w http.ResponseWriter, r *http.Request) {
	if s.scenarios == nil {
		writeError(w, http.StatusServiceUnavailable, "scenario storage not configured")
		return
	}
	sc, err := s.scenarios.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, scenario.ErrNotFound) {
		writeError(w, http.StatusNotFound, "scenario not found")
		return
	}
	if err != nil {
		s.logger.Error("scenario load failed", "error", err)
		writeError(w, http.StatusInternalServerError, "scenario load failed")
		return
	}
	writeJSON(w, http.StatusOK, sc)
}

func (s *Server) deleteScenario(w http.ResponseWriter, r *http.Request) {
	if s.scenarios == nil {
		writeError(w, http.StatusServiceUnavailable, "scenario storage not configured")
		return
	}
	err := s.scenarios.Delete(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, scenario.ErrNotFound) {
		writeError(w, http.StatusNotFound, "scenario not found")
		return
	}
	if err != nil {
		s.logger.Error("scenario delete failed", "error", err)
		writeError(w, http.StatusInternalServerError, "scenario delete failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
