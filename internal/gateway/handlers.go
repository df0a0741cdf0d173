package gateway

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/sautihq/sauti/internal/store"
	"github.com/sautihq/sauti/internal/version"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// handleIndex describes the service for anyone poking at the root URL.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "sauti",
		"version": version.Version,
		"endpoints": []string{
			"/health", "/chat", "/ws",
			"/voice/callback", "/voice/store", "/voice/play", "/voice/sessions",
			"/calls", "/metrics",
		},
	})
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"version":  version.Version,
		"sessions": s.sessions.Len(),
		"uptime":   time.Since(s.startedAt).Round(time.Second).String(),
	})
}

// handleNotFound returns a 404 for unknown routes.
func handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, map[string]string{
		"error": "not found",
		"path":  r.URL.Path,
	})
}

type chatRequest struct {
	Message string `json:"message"`
}

// handleChat runs one assistant round over plain HTTP.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if s.runner == nil {
		writeError(w, http.StatusServiceUnavailable, "assistant is not configured")
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	reply := s.runner.Process(r.Context(), req.Message)
	writeJSON(w, http.StatusOK, reply)
}

// handleCalls lists recent outbound voice calls and dispatches from the
// audit log.
func (s *Server) handleCalls(w http.ResponseWriter, r *http.Request) {
	if s.calls == nil {
		writeError(w, http.StatusServiceUnavailable, "call log is not configured")
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	calls, err := s.calls.RecentCalls(limit)
	if err != nil {
		s.log.Error().Err(err).Msg("listing recent calls")
		writeError(w, http.StatusInternalServerError, "failed to list calls")
		return
	}
	dispatches, err := s.calls.RecentDispatches(limit)
	if err != nil {
		s.log.Error().Err(err).Msg("listing recent dispatches")
		writeError(w, http.StatusInternalServerError, "failed to list dispatches")
		return
	}

	if calls == nil {
		calls = []store.CallRecord{}
	}
	if dispatches == nil {
		dispatches = []store.DispatchRecord{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"calls":      calls,
		"dispatches": dispatches,
	})
}
