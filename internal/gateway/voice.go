package gateway

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/sautihq/sauti/internal/redact"
	"github.com/sautihq/sauti/internal/validate"
	"github.com/sautihq/sauti/internal/voice"
)

// writeMarkup sends call-instruction XML. The provider treats anything but
// a 200 with valid markup as a dead call, so every callback path funnels
// through here with status OK.
func writeMarkup(w http.ResponseWriter, markup string) {
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(markup))
}

// handleVoiceCallback answers the provider's mid-call webhook. The session
// id travels via the echoed clientRequestId; when the provider omits it,
// the destination number is the fallback key. A miss on both still gets
// speakable markup; a live call must never hear an HTTP error.
func (s *Server) handleVoiceCallback(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.log.Warn().Err(err).Msg("voice callback with unparseable form")
	}

	sessionID := firstNonEmpty(r.FormValue("sessionId"), r.FormValue("clientRequestId"))
	callerNumber := firstNonEmpty(r.FormValue("callerNumber"), r.FormValue("destinationNumber"))
	isActive := r.FormValue("isActive")

	s.log.Info().
		Str("sessionId", sessionID).
		Str("caller", redact.PhoneNumber(callerNumber)).
		Str("isActive", isActive).
		Msg("voice callback received")

	resolution := "fallback"
	var sess voice.Session
	var found bool

	if sessionID != "" {
		if sess, found = s.sessions.Get(sessionID); found {
			resolution = "session_id"
		}
	}
	if !found && callerNumber != "" {
		if sess, found = s.sessions.GetByNumber(callerNumber); found {
			resolution = "number"
		}
	}

	if s.metrics != nil {
		s.metrics.ObserveCallback(resolution)
	}

	if !found {
		s.log.Warn().
			Str("sessionId", sessionID).
			Str("caller", redact.PhoneNumber(callerNumber)).
			Msg("no session for callback, serving fallback message")
		writeMarkup(w, voice.RenderSay(voice.VoiceWoman, s.cfg.Voice.FallbackMessage))
		return
	}

	// The session stays stored: the provider retries callbacks on flaky
	// networks, and a retry must hear the same message. Expiry cleans up.
	writeMarkup(w, voice.RenderSession(sess))
}

type storeMessageRequest struct {
	SessionID string `json:"session_id"`
	ToNumber  string `json:"to_number"`
	Message   string `json:"message"`
	VoiceType string `json:"voice_type,omitempty"`
}

// handleVoiceStore registers a text-to-speech session for a call placed
// outside the assistant, keyed by the caller's own session id.
func (s *Server) handleVoiceStore(w http.ResponseWriter, r *http.Request) {
	var req storeMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.SessionID == "" || req.ToNumber == "" || req.Message == "" {
		writeError(w, http.StatusBadRequest, "session_id, to_number, and message are required")
		return
	}
	if err := validate.PhoneNumber(req.ToNumber); err != nil {
		writeError(w, http.StatusBadRequest, "to_number: "+err.Error())
		return
	}

	s.sessions.Put(voice.Session{
		ID:       req.SessionID,
		ToNumber: req.ToNumber,
		Message:  req.Message,
		Voice:    voice.ParseVoiceType(req.VoiceType),
	})

	s.log.Info().
		Str("sessionId", req.SessionID).
		Str("to", redact.PhoneNumber(req.ToNumber)).
		Msg("stored voice message")

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "session_id": req.SessionID})
}

type storePlayRequest struct {
	SessionID string `json:"session_id"`
	ToNumber  string `json:"to_number,omitempty"`
	AudioURL  string `json:"audio_url"`
}

// handleVoicePlay registers an audio-playback session.
func (s *Server) handleVoicePlay(w http.ResponseWriter, r *http.Request) {
	var req storePlayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.SessionID == "" || req.AudioURL == "" {
		writeError(w, http.StatusBadRequest, "session_id and audio_url are required")
		return
	}
	if err := validate.AudioURL(req.AudioURL); err != nil {
		writeError(w, http.StatusBadRequest, "audio_url: "+err.Error())
		return
	}

	s.sessions.Put(voice.Session{
		ID:       req.SessionID,
		ToNumber: req.ToNumber,
		AudioURL: req.AudioURL,
	})

	s.log.Info().
		Str("sessionId", req.SessionID).
		Str("audioUrl", req.AudioURL).
		Msg("stored audio play info")

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "session_id": req.SessionID})
}

// sessionSummary is the redacted listing shape: numbers masked, messages
// truncated.
type sessionSummary struct {
	SessionID string `json:"session_id"`
	ToNumber  string `json:"to_number"`
	Message   string `json:"message,omitempty"`
	AudioURL  string `json:"audio_url,omitempty"`
	VoiceType string `json:"voice_type,omitempty"`
	CreatedAt string `json:"created_at"`
}

// handleVoiceSessions lists live sessions for debugging.
func (s *Server) handleVoiceSessions(w http.ResponseWriter, r *http.Request) {
	live := s.sessions.List()

	summaries := make([]sessionSummary, 0, len(live))
	for _, sess := range live {
		summaries = append(summaries, sessionSummary{
			SessionID: sess.ID,
			ToNumber:  redact.PhoneNumber(sess.ToNumber),
			Message:   truncate(sess.Message, 50),
			AudioURL:  sess.AudioURL,
			VoiceType: string(sess.Voice),
			CreatedAt: sess.CreatedAt.Format(time.RFC3339),
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"count":    len(summaries),
		"sessions": summaries,
	})
}

// truncate shortens s to n runes; slicing on bytes could split a
// multibyte character mid-sequence.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
