package simd

import (
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/GoSim-25-26J-441/bandit-sim/internal/metrics"
	"github.com/GoSim-25-26J-441/bandit-sim/internal/session"
	"github.com/GoSim-25-26J-441/bandit-sim/pkg/logger"
	"github.com/GoSim-25-26J-441/bandit-sim/pkg/models"
)

type HTTPServer struct {
	mux      *http.ServeMux
	store    *session.Store
	Executor *Executor
}

func NewHTTPServer(executor *Executor) *HTTPServer {
	s := &HTTPServer{
		mux:      http.NewServeMux(),
		store:    executor.Store(),
		Executor: executor,
	}

	s.mux.HandleFunc("/healthz", s.handleHealthz)
	s.mux.HandleFunc("/v1/arms", s.handleArms)
	s.mux.HandleFunc("/v1/stats", s.handleStats)
	s.mux.HandleFunc("/v1/tune", s.handleTune)
	s.mux.HandleFunc("/v1/sessions", s.handleSessions)
	s.mux.HandleFunc("/v1/sessions/", s.handleSessionByID)

	return s
}

func (s *HTTPServer) Handler() http.Handler {
	return s.mux
}

func (s *HTTPServer) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}); err != nil {
		http.Error(w, `{"error":"encode failed"}`, http.StatusInternalServerError)
	}
}

// handleArms handles GET /v1/arms
func (s *HTTPServer) handleArms(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	cfg := s.Executor.Config()
	s.writeJSON(w, http.StatusOK, map[string]any{
		"arms":       s.Executor.Arms(),
		"truth_seed": cfg.Truths.Seed,
	})
}

// handleStats handles GET and DELETE /v1/stats
func (s *HTTPServer) handleStats(w http.ResponseWriter, r *http.Request) {
	collector := s.Executor.Collector()
	switch r.Method {
	case http.MethodGet:
	case http.MethodDelete:
		collector.Clear()
		logger.Info("run metrics cleared (HTTP)")
		w.WriteHeader(http.StatusNoContent)
		return
	default:
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"uptime_seconds": collector.Uptime().Seconds(),
		"sessions":       s.store.Len(),
		"series":         collector.Stats(),
	})
}

// handleTune handles POST /v1/tune
func (s *HTTPServer) handleTune(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var params TuneParams
	if !s.decodeOptional(w, r, &params) {
		return
	}

	res, err := s.Executor.Tune(r.Context(), params)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"tuning": res,
	})
}

// handleSessions handles /v1/sessions
func (s *HTTPServer) handleSessions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleCreateSession(w, r)
	case http.MethodGet:
		s.handleListSessions(w, r)
	default:
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleSessionByID handles /v1/sessions/{id} and related endpoints
func (s *HTTPServer) handleSessionByID(w http.ResponseWriter, r *http.Request) {
	// Parse path: /v1/sessions/{id}, /v1/sessions/{id}:reset or /v1/sessions/{id}/{action}
	path := strings.TrimPrefix(r.URL.Path, "/v1/sessions/")
	if path == "" {
		s.writeError(w, http.StatusBadRequest, "session ID is required")
		return
	}

	if strings.HasSuffix(path, ":reset") {
		id := strings.TrimSuffix(path, ":reset")
		if r.Method == http.MethodPost {
			s.handleResetSession(w, r, id)
		} else {
			s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
		return
	}

	if id, action, ok := strings.Cut(path, "/"); ok {
		s.routeAction(w, r, id, action)
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.handleGetSession(w, r, path)
	case http.MethodDelete:
		s.handleDeleteSession(w, r, path)
	default:
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) routeAction(w http.ResponseWriter, r *http.Request, id, action string) {
	type route struct {
		method  string
		handler func(http.ResponseWriter, *http.Request, string)
	}
	routes := map[string]route{
		"random":     {http.MethodPost, s.handleSimulateRandom},
		"greedy":     {http.MethodPost, s.handleSimulateGreedy},
		"compare":    {http.MethodPost, s.handleCompare},
		"summary":    {http.MethodGet, s.handleSummary},
		"replay":     {http.MethodGet, s.handleReplay},
		"comparison": {http.MethodGet, s.handleComparison},
		"export":     {http.MethodGet, s.handleExport},
	}

	rt, ok := routes[action]
	if !ok {
		s.writeError(w, http.StatusNotFound, "unknown endpoint: "+action)
		return
	}
	if r.Method != rt.method {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	rt.handler(w, r, id)
}

// handleCreateSession handles POST /v1/sessions
func (s *HTTPServer) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID string `json:"session_id,omitempty"`
	}
	if !s.decodeOptional(w, r, &req) {
		return
	}

	sess, err := s.store.Create(req.SessionID)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}

	logger.Info("session created (HTTP)", "session_id", sess.ID)
	s.writeJSON(w, http.StatusCreated, map[string]any{
		"session": NewSessionView(sess.Snapshot()),
	})
}

// handleListSessions handles GET /v1/sessions
func (s *HTTPServer) handleListSessions(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
			if limit > 1000 {
				limit = 1000
			}
		}
	}

	sessions := s.store.List(limit)
	out := make([]SessionView, 0, len(sessions))
	for _, sess := range sessions {
		out = append(out, NewSessionView(sess.Snapshot()))
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"sessions": out,
		"total":    s.store.Len(),
	})
}

// handleGetSession handles GET /v1/sessions/{id}
func (s *HTTPServer) handleGetSession(w http.ResponseWriter, r *http.Request, id string) {
	sess, err := s.store.Get(id)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"session": NewSessionView(sess.Snapshot()),
	})
}

// handleDeleteSession handles DELETE /v1/sessions/{id}
func (s *HTTPServer) handleDeleteSession(w http.ResponseWriter, r *http.Request, id string) {
	if err := s.store.Delete(id); err != nil {
		s.writeStoreError(w, err)
		return
	}
	logger.Info("session deleted (HTTP)", "session_id", id)
	w.WriteHeader(http.StatusNoContent)
}

// handleResetSession handles POST /v1/sessions/{id}:reset
func (s *HTTPServer) handleResetSession(w http.ResponseWriter, r *http.Request, id string) {
	if err := s.Executor.Reset(id); err != nil {
		s.writeStoreError(w, err)
		return
	}
	sess, err := s.store.Get(id)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"session": NewSessionView(sess.Snapshot()),
	})
}

// handleSimulateRandom handles POST /v1/sessions/{id}/random
func (s *HTTPServer) handleSimulateRandom(w http.ResponseWriter, r *http.Request, id string) {
	s.handleSimulate(w, r, id, models.PolicyRandom)
}

// handleSimulateGreedy handles POST /v1/sessions/{id}/greedy
func (s *HTTPServer) handleSimulateGreedy(w http.ResponseWriter, r *http.Request, id string) {
	s.handleSimulate(w, r, id, models.PolicyEpsilonGreedy)
}

func (s *HTTPServer) handleSimulate(w http.ResponseWriter, r *http.Request, id string, policy models.Policy) {
	var params RunParams
	if !s.decodeOptional(w, r, &params) {
		return
	}
	run, err := s.Executor.Simulate(r.Context(), id, policy, params)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"run": NewRunView(run),
	})
}

// handleCompare handles POST /v1/sessions/{id}/compare
func (s *HTTPServer) handleCompare(w http.ResponseWriter, r *http.Request, id string) {
	var params CompareParams
	if !s.decodeOptional(w, r, &params) {
		return
	}

	imp, err := s.Executor.Compare(r.Context(), id, params)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	sess, err := s.store.Get(id)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, compareResult(imp, sess.Snapshot()))
}

// handleSummary handles GET /v1/sessions/{id}/summary?policy=
func (s *HTTPServer) handleSummary(w http.ResponseWriter, r *http.Request, id string) {
	policyStr := r.URL.Query().Get("policy")
	if policyStr == "" {
		s.writeError(w, http.StatusBadRequest, "policy query parameter is required")
		return
	}
	policy, err := models.ParsePolicy(policyStr)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	summary, err := s.Executor.Summary(id, policy)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"summary": summary,
	})
}

// handleReplay handles GET /v1/sessions/{id}/replay?step=
func (s *HTTPServer) handleReplay(w http.ResponseWriter, r *http.Request, id string) {
	step := math.MaxInt
	if stepStr := r.URL.Query().Get("step"); stepStr != "" {
		parsed, err := strconv.Atoi(stepStr)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "step must be an integer")
			return
		}
		step = parsed
	}

	view, err := s.Executor.Replay(id, step)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, ReplayResult{
		Replay: view,
		Steps:  metrics.ReplaySteps(view.MaxStep, s.Executor.Config().Replay.Interval),
	})
}

// handleComparison handles GET /v1/sessions/{id}/comparison
func (s *HTTPServer) handleComparison(w http.ResponseWriter, r *http.Request, id string) {
	imp, err := s.Executor.Comparison(id)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"improvement": imp,
	})
}

// handleExport handles GET /v1/sessions/{id}/export?policy=
func (s *HTTPServer) handleExport(w http.ResponseWriter, r *http.Request, id string) {
	policy := models.PolicyEpsilonGreedy
	if policyStr := r.URL.Query().Get("policy"); policyStr != "" {
		parsed, err := models.ParsePolicy(policyStr)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		policy = parsed
	}

	sess, err := s.store.Get(id)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	run := sess.Get(policy)
	if run == nil {
		s.writeError(w, http.StatusNotFound, "no "+string(policy)+" result in session "+id)
		return
	}
	s.writeJSON(w, http.StatusOK, run)
}

// decodeOptional decodes a JSON body into dst, treating an empty body as "{}".
// It writes a 400 and returns false on malformed input.
func (s *HTTPServer) decodeOptional(w http.ResponseWriter, r *http.Request, dst any) bool {
	if r.Body == nil {
		return true
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

// writeStoreError maps executor and store errors to status codes
func (s *HTTPServer) writeStoreError(w http.ResponseWriter, err error) {
	s.writeError(w, httpStatus(err), err.Error())
}

func httpStatus(err error) int {
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, session.ErrSessionExists):
		return http.StatusConflict
	case IsInvalidInput(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *HTTPServer) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", "error", err)
	}
}

func (s *HTTPServer) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]any{"error": message})
}
