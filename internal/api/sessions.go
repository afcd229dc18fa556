package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/proftrain/patientsim/internal/engine"
	"github.com/proftrain/patientsim/internal/events"
	"github.com/proftrain/patientsim/internal/scenario"
)

// sessionIdleTTL matches the snapshot expiry: a session untouched for this
// long is dropped from memory; with Redis configured the snapshot fallback
// can still revive it.
const sessionIdleTTL = 24 * time.Hour

// session pairs an engine with its own lock. The engine is single-threaded;
// the lock serializes concurrent requests for the same session id.
type session struct {
	mu  sync.Mutex
	eng *engine.Engine

	// lastSeen is guarded by the Registry mutex, not the session one.
	lastSeen time.Time
}

// Registry is the in-memory session table, the only state shared across
// sessions. Idle sessions are swept on every access so the table cannot grow
// without bound.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*session
	now      func() time.Time
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*session), now: time.Now}
}

func (r *Registry) put(id string, eng *engine.Engine) *session {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.evictIdle()
	sess := &session{eng: eng, lastSeen: r.now()}
	r.sessions[id] = sess
	return sess
}

func (r *Registry) get(id string) (*session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.evictIdle()
	sess, ok := r.sessions[id]
	if ok {
		sess.lastSeen = r.now()
	}
	return sess, ok
}

// evictIdle drops sessions idle past the TTL. Caller holds r.mu.
func (r *Registry) evictIdle() {
	cutoff := r.now().Add(-sessionIdleTTL)
	for id, sess := range r.sessions {
		if sess.lastSeen.Before(cutoff) {
			delete(r.sessions, id)
		}
	}
}

type createSessionRequest struct {
	ScenarioID string             `json:"scenario_id,omitempty"`
	Scenario   *scenario.Scenario `json:"scenario,omitempty"`
}

type createSessionResponse struct {
	SessionID    string         `json:"session_id"`
	Greeting     string         `json:"greeting"`
	Emotion      engine.Emotion `json:"emotional_state"`
	Satisfaction int            `json:"satisfaction"`
}

type postMessageRequest struct {
	Message string `json:"message"`
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var sc scenario.Scenario
	switch {
	case req.ScenarioID != "":
		if s.scenarios == nil {
			writeError(w, http.StatusServiceUnavailable, "scenario storage not configured")
			return
		}
		stored, err := s.scenarios.Get(r.Context(), req.ScenarioID)
		if errors.Is(err, scenario.ErrNotFound) {
			writeError(w, http.StatusNotFound, "scenario not found")
			return
		}
		if err != nil {
			s.logger.Error("scenario load failed", "scenario_id", req.ScenarioID, "error", err)
			writeError(w, http.StatusInternalServerError, "scenario load failed")
			return
		}
		sc = stored
	case req.Scenario != nil:
		sc = *req.Scenario
	default:
		writeError(w, http.StatusBadRequest, "scenario or scenario_id required")
		return
	}

	id := uuid.New().String()
	eng := engine.New(sc)
	greeting := eng.Greeting()
	s.registry.put(id, eng)

	if s.snapshots != nil {
		s.snapshots.SaveAsync(eng.Snapshot(id))
	}
	s.events.TryPublish(events.SubjectSessionStarted, events.SessionEvent{
		SessionID:  id,
		ScenarioID: sc.ID,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
	})

	st := eng.State()
	writeJSON(w, http.StatusCreated, createSessionResponse{
		SessionID:    id,
		Greeting:     greeting,
		Emotion:      st.Emotion,
		Satisfaction: st.Satisfaction,
	})
}

func (s *Server) postMessage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sess, ok := s.lookup(r, id)
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	var req postMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "message required")
		return
	}

	sess.mu.Lock()
	reply := sess.eng.Respond(req.Message)
	snap := sess.eng.Snapshot(id)
	turn := len(sess.eng.History())
	sess.mu.Unlock()

	if s.snapshots != nil {
		s.snapshots.SaveAsync(snap)
	}
	s.events.TryPublish(events.SubjectSessionTurn, events.TurnEvent{
		SessionID:    id,
		Turn:         turn,
		Emotion:      string(reply.Emotion),
		Satisfaction: reply.Satisfaction,
		Phase:        string(reply.Phase),
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
	})

	writeJSON(w, http.StatusOK, reply)
}

func (s *Server) sessionAnalysis(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sess, ok := s.lookup(r, id)
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	sess.mu.Lock()
	report := sess.eng.Report()
	sess.mu.Unlock()

	s.events.TryPublish(events.SubjectSessionAnalyzed, events.SessionEvent{
		SessionID:    id,
		OverallScore: report.OverallScore,
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
	})

	writeJSON(w, http.StatusOK, report)
}

// lookup finds the session in the registry, falling back to a stored
// snapshot. A restored session rejoins the registry so later requests hit
// memory.
func (s *Server) lookup(r *http.Request, id string) (*session, bool) {
	if sess, ok := s.registry.get(id); ok {
		return sess, true
	}
	if s.snapshots == nil {
		return nil, false
	}
	m, ok, err := s.snapshots.Load(r.Context(), id)
	if err != nil {
		s.logger.Warn("snapshot load failed", "session_id", id, "error", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}
	s.logger.Info("session restored from snapshot", "session_id", id, "turns", len(m.Turns))
	return s.registry.put(id, engine.Resume(m.Scenario, m)), true
}
