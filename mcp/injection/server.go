package injection

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/scriptling/scriptling-mcp/mcp"
)

// Server hot-injects configuration into a running registry service.
type Server struct {
	svc    *mcp.Service
	logger *zap.Logger
	hub    *hub

	mu   sync.Mutex
	addr string

	httpServer *http.Server
	limiter    rateLimiter
}

// ServerOption configures the injection server.
type ServerOption func(*Server)

// WithRateLimiter overrides the default request rate limiter (primarily for
// tests).
func WithRateLimiter(limiter rateLimiter) ServerOption {
	return func(s *Server) {
		s.limiter = limiter
	}
}

// NewServer creates an injection server bound to the given service.
func NewServer(svc *mcp.Service, port int, opts ...ServerOption) *Server {
	s := &Server{
		svc:     svc,
		logger:  svc.Logger().Named("injection"),
		addr:    fmt.Sprintf("localhost:%d", port),
		limiter: newTokenBucketLimiter(25, 50),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.hub = newHub(s.logger)
	// Stream registry changes to websocket subscribers.
	svc.Subscribe(func(event mcp.ChangeEvent) {
		s.hub.broadcast(wsResponse{Type: "update", Data: event})
	})
	return s
}

// Addr returns the listen address. Once Start has bound the listener it is
// the actual bound address, which makes port 0 usable for tests.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

func (s *Server) setAddr(addr string) {
	s.mu.Lock()
	s.addr = addr
	s.mu.Unlock()
}

// Handler returns the full HTTP handler, exposed for tests.
func (s *Server) Handler() http.Handler {
	return s.router()
}

// Start runs the HTTP server until Stop is called or ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.Addr())
	if err != nil {
		return fmt.Errorf("injection server: %w", err)
	}
	s.setAddr(listener.Addr().String())
	s.httpServer = &http.Server{
		Handler:           s.router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.shutdown(shutdownCtx)
	}()

	s.logger.Info("injection server listening", zap.String("addr", s.Addr()))
	if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("injection server: %w", err)
	}
	return nil
}

// Stop shuts the HTTP server down gracefully and disconnects websocket
// subscribers.
func (s *Server) Stop(ctx context.Context) error {
	return s.shutdown(ctx)
}

func (s *Server) shutdown(ctx context.Context) error {
	s.hub.close()
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
