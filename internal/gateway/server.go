// Package gateway serves the HTTP surface: the voice callback webhook the
// provider hits mid-call, the chat endpoints, and the operational
// endpoints for sessions, call history and metrics.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/sautihq/sauti/internal/assistant"
	"github.com/sautihq/sauti/internal/config"
	"github.com/sautihq/sauti/internal/logging"
	"github.com/sautihq/sauti/internal/metrics"
	"github.com/sautihq/sauti/internal/store"
	"github.com/sautihq/sauti/internal/version"
	"github.com/sautihq/sauti/internal/voice"
)

// Server is the Sauti gateway HTTP + WebSocket server.
type Server struct {
	cfg      config.Config
	log      *logging.Logger
	sessions voice.Store

	// Optional collaborators; nil disables the related endpoints.
	runner  *assistant.Runner
	calls   *store.CallLog
	metrics *metrics.Metrics

	startedAt  time.Time
	httpServer *http.Server
	upgrader   websocket.Upgrader
}

// ServerOption configures the gateway server.
type ServerOption func(*Server)

// WithRunner sets the assistant runner backing /chat and /ws.
func WithRunner(r *assistant.Runner) ServerOption {
	return func(s *Server) { s.runner = r }
}

// WithCallLog sets the persistent call log backing /calls.
func WithCallLog(cl *store.CallLog) ServerOption {
	return func(s *Server) { s.calls = cl }
}

// WithMetrics sets the metrics set backing /metrics.
func WithMetrics(m *metrics.Metrics) ServerOption {
	return func(s *Server) { s.metrics = m }
}

// New creates a gateway server around the given voice session store.
func New(cfg config.Config, sessions voice.Store, log *logging.Logger, opts ...ServerOption) *Server {
	allowedOrigins := cfg.Gateway.AllowedOrigins
	s := &Server{
		cfg:       cfg,
		log:       log.Sub("gateway"),
		sessions:  sessions,
		startedAt: time.Now(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     checkWebSocketOrigin(allowedOrigins),
		},
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.metrics != nil {
		s.metrics.RegisterSessionGauge("sauti", sessions.Len)
	}
	return s
}

// checkWebSocketOrigin returns a function that validates WebSocket Origin
// headers. Requests without an Origin header (non-browser clients) are
// always allowed; browser requests must match a configured origin.
func checkWebSocketOrigin(allowed []string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, a := range allowed {
			if a == "*" || a == origin {
				return true
			}
		}
		return false
	}
}

// resolveBindAddr computes the listen address from config.
func resolveBindAddr(cfg config.GatewayConfig) string {
	switch cfg.Bind {
	case "loopback":
		return fmt.Sprintf("127.0.0.1:%d", cfg.Port)
	case "lan", "auto":
		return fmt.Sprintf("0.0.0.0:%d", cfg.Port)
	case "custom":
		host := cfg.CustomBindHost
		if host == "" {
			host = "0.0.0.0"
		}
		return fmt.Sprintf("%s:%d", host, cfg.Port)
	default:
		return fmt.Sprintf("127.0.0.1:%d", cfg.Port)
	}
}

// registerRoutes sets up all HTTP routes on the server mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /chat", s.handleChat)
	mux.HandleFunc("GET /ws", s.handleWebSocket)

	// The provider may deliver the callback as a form POST or as a GET
	// with query parameters depending on dashboard configuration.
	mux.HandleFunc("POST /voice/callback", s.handleVoiceCallback)
	mux.HandleFunc("GET /voice/callback", s.handleVoiceCallback)
	mux.HandleFunc("POST /voice/store", s.handleVoiceStore)
	mux.HandleFunc("POST /voice/play", s.handleVoicePlay)
	mux.HandleFunc("GET /voice/sessions", s.handleVoiceSessions)

	mux.HandleFunc("GET /calls", s.handleCalls)
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics.Handler())
	}

	mux.HandleFunc("/", handleNotFound)
}

// Handler returns the fully assembled HTTP handler, middleware included.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.registerRoutes(mux)
	return withMiddleware(mux, s.log, s.cfg.Gateway.AllowedOrigins)
}

// Start begins listening for HTTP and WebSocket connections.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) Start(ctx context.Context) error {
	addr := resolveBindAddr(s.cfg.Gateway)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		BaseContext:  func(l net.Listener) context.Context { return ctx },
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	s.log.Info().
		Str("addr", ln.Addr().String()).
		Str("bind", s.cfg.Gateway.Bind).
		Str("version", version.Version).
		Msg("gateway server ready")

	// Shutdown when context is cancelled
	go func() {
		<-ctx.Done()
		s.log.Info().Msg("shutting down gateway server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.httpServer.Shutdown(shutdownCtx)
	}()

	if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Addr returns the server's listen address, or empty string if not started.
func (s *Server) Addr() string {
	if s.httpServer != nil {
		return s.httpServer.Addr
	}
	return ""
}
