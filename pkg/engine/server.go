package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/getmockd/pokedex/pkg/logging"
)

// DefaultShutdownTimeout bounds graceful shutdown.
const DefaultShutdownTimeout = 10 * time.Second

// ServerConfig holds listener settings.
type ServerConfig struct {
	// Port to listen on. Zero picks a free port.
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Server runs a Handler behind the request id, access log and metrics
// middleware.
type Server struct {
	cfg         ServerConfig
	handler     *Handler
	httpHandler http.Handler
	log         *slog.Logger

	mu         sync.Mutex
	httpServer *http.Server
	listener   net.Listener
	running    bool
	errCh      chan error
}

// ServerOption is a functional option for configuring a Server.
type ServerOption func(*Server)

// WithServerLogger sets the operational and access logger.
func WithServerLogger(log *slog.Logger) ServerOption {
	return func(s *Server) {
		s.log = logging.OrNop(log)
	}
}

// NewServer creates a Server for handler.
func NewServer(cfg ServerConfig, handler *Handler, opts ...ServerOption) *Server {
	s := &Server{
		cfg:     cfg,
		handler: handler,
		log:     logging.Nop(),
		errCh:   make(chan error, 1),
	}
	for _, opt := range opts {
		opt(s)
	}

	// Order: request id -> access log -> metrics -> handler
	var h http.Handler = handler
	h = MetricsMiddleware(handler.Metrics(), h)
	h = AccessLogMiddleware(s.log, h)
	h = RequestIDMiddleware(h)
	s.httpHandler = h
	return s
}

// Handler returns the fully wrapped http.Handler.
func (s *Server) Handler() http.Handler {
	return s.httpHandler
}

// Start opens the listener and serves in the background. Listen errors are
// returned directly; later serve errors are delivered on Errors.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return errors.New("server is already running")
	}

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.cfg.Port))
	if err != nil {
		return fmt.Errorf("listen on port %d: %w", s.cfg.Port, err)
	}

	s.listener = ln
	s.httpServer = &http.Server{
		Handler:           s.httpHandler,
		ReadTimeout:       s.cfg.ReadTimeout,
		ReadHeaderTimeout: s.cfg.ReadTimeout,
		WriteTimeout:      s.cfg.WriteTimeout,
		ErrorLog:          slog.NewLogLogger(s.log.Handler(), slog.LevelWarn),
	}
	s.running = true

	srv := s.httpServer
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("HTTP server error", "error", err)
			s.errCh <- err
		}
	}()

	s.log.Info("server listening", "addr", "http://"+s.Addr())
	return nil
}

// Addr returns the bound listen address, or "" before Start.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Errors delivers a fatal serve error, if one occurs.
func (s *Server) Errors() <-chan error {
	return s.errCh
}

// IsRunning reports whether the server is serving.
func (s *Server) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Shutdown stops accepting connections and waits for in-flight requests
// until ctx is done.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}
	s.running = false

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("HTTP shutdown: %w", err)
	}
	s.log.Info("server stopped")
	return nil
}
