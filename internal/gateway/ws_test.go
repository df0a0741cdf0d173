package gateway

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sautihq/sauti/internal/llm"
)

func dialWS(t *testing.T, s *Server) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestWebSocketChat(t *testing.T) {
	mock := &llm.Mock{Responses: []llm.ChatResponse{
		{Message: llm.Message{Role: llm.RoleAssistant, Content: "first"}},
		{Message: llm.Message{Role: llm.RoleAssistant, Content: "second"}},
	}}
	s := chatServer(t, mock)
	conn := dialWS(t, s)

	require.NoError(t, conn.WriteJSON(wsRequest{Message: "one"}))
	var reply wsReply
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Equal(t, "reply", reply.Type)
	assert.Equal(t, "first", reply.Text)

	// The same connection serves multiple rounds.
	require.NoError(t, conn.WriteJSON(wsRequest{Message: "two"}))
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Equal(t, "second", reply.Text)
}

func TestWebSocketEmptyMessage(t *testing.T) {
	s := chatServer(t, &llm.Mock{})
	conn := dialWS(t, s)

	require.NoError(t, conn.WriteJSON(wsRequest{}))
	var reply wsReply
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Equal(t, "error", reply.Type)
	assert.Contains(t, reply.Error, "message is required")
}

func TestWebSocketWithoutRunner(t *testing.T) {
	s, _ := testServer(t)
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, 503, resp.StatusCode)
}
