package gateway

import (
	"net/http"

	"github.com/gorilla/websocket"
)

// wsRequest is one inbound chat frame.
type wsRequest struct {
	Message string `json:"message"`
}

// wsReply is one outbound frame: either an assistant reply or an error.
type wsReply struct {
	Type string `json:"type"` // "reply" | "error"
	// Reply fields, present when Type is "reply".
	Text        string `json:"text,omitempty"`
	Invocations any    `json:"invocations,omitempty"`
	// Error detail, present when Type is "error".
	Error string `json:"error,omitempty"`
}

// handleWebSocket upgrades to WebSocket and runs a chat loop: one JSON
// frame in, one assistant reply out, until the client goes away.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.runner == nil {
		http.Error(w, "assistant is not configured", http.StatusServiceUnavailable)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	conn.SetReadLimit(64 * 1024)

	s.log.Debug().Str("remote", r.RemoteAddr).Msg("new websocket connection")

	for {
		var req wsRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Warn().Err(err).Msg("websocket read failed")
			}
			return
		}

		if req.Message == "" {
			if err := conn.WriteJSON(wsReply{Type: "error", Error: "message is required"}); err != nil {
				return
			}
			continue
		}

		reply := s.runner.Process(r.Context(), req.Message)
		out := wsReply{Type: "reply", Text: reply.Text}
		if len(reply.Invocations) > 0 {
			out.Invocations = reply.Invocations
		}
		if err := conn.WriteJSON(out); err != nil {
			s.log.Warn().Err(err).Msg("websocket write failed")
			return
		}
	}
}
