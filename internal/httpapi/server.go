// Package httpapi is the HTTP connector and introspection surface of the
// gateway. It translates HTTP requests into dispatch calls and dispatch
// results back into HTTP status codes; the dispatch engine itself knows
// nothing about HTTP.
package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Config holds server configuration.
type Config struct {
	Port         int
	SecretKey    string
	TokenTTL     time.Duration
	NoAuth       bool
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Server is the HTTP API server.
type Server struct {
	gateway    Gateway
	jwtAuth    *JWTAuth
	handlers   *Handlers
	middleware *Middleware
	logger     *zap.Logger
	server     *http.Server
}

// NewServer creates the HTTP API server over a gateway.
func NewServer(gw Gateway, cfg Config, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	jwtAuth := NewJWTAuth(cfg.SecretKey, cfg.TokenTTL)
	handlers := NewHandlers(gw, jwtAuth, logger)
	middleware := NewMiddleware(jwtAuth, logger, cfg.NoAuth)

	s := &Server{
		gateway:    gw,
		jwtAuth:    jwtAuth,
		handlers:   handlers,
		middleware: middleware,
		logger:     logger,
	}

	readTimeout := cfg.ReadTimeout
	if readTimeout <= 0 {
		readTimeout = 30 * time.Second
	}
	writeTimeout := cfg.WriteTimeout
	if writeTimeout <= 0 {
		writeTimeout = 30 * time.Second
	}

	s.server = &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Port),
		Handler:        s.setupRoutes(),
		ReadTimeout:    readTimeout,
		WriteTimeout:   writeTimeout,
		IdleTimeout:    120 * time.Second,
		MaxHeaderBytes: 1 << 20, // 1MB
	}

	return s
}

// setupRoutes wires the endpoint table.
func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()
	m := s.middleware

	mux.HandleFunc("POST /api/auth/login", m.CORS(m.Logging(s.handlers.HandleLogin)))
	mux.HandleFunc("GET /api/health", m.CORS(m.Logging(s.handlers.HandleHealth)))

	mux.HandleFunc("POST /api/events", m.CORS(m.Logging(m.AuthRequired(s.handlers.HandleEvents))))
	mux.HandleFunc("/ingest/", m.CORS(m.Logging(m.AuthRequired(s.handlers.HandleIngest))))

	mux.HandleFunc("GET /api/handlers", m.CORS(m.Logging(m.AuthRequired(s.handlers.HandleListHandlers))))
	mux.HandleFunc("GET /api/routes", m.CORS(m.Logging(m.AuthRequired(s.handlers.HandleListRoutes))))
	mux.HandleFunc("GET /api/dispatches", m.CORS(m.Logging(m.AdminRequired(s.handlers.HandleListDispatches))))

	return mux
}

// Handler exposes the routed handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start begins serving. It blocks until the server stops.
func (s *Server) Start() error {
	s.logger.Info("http api listening", zap.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server failed: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
