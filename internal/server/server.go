package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"croprec/internal/logging"
)

// Server serves crop rankings over HTTP.
type Server struct {
	config      *Config
	httpServer  *http.Server
	rateLimiter *rate.Limiter
	predictor   Predictor
	started     time.Time
	ready       atomic.Bool
	addr        atomic.Value // net.Addr once listening
}

// NewServer builds a server around predictor. A configured client directory
// must exist.
func NewServer(config *Config, predictor Predictor) (*Server, error) {
	if config == nil {
		config = NewConfig()
	}
	if predictor == nil {
		return nil, errors.New("predictor is required")
	}

	if config.ClientDir != "" {
		info, err := os.Stat(config.ClientDir)
		if err != nil {
			return nil, fmt.Errorf("client directory not found: %w", err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("client directory not found: %s is not a directory", config.ClientDir)
		}
	}

	s := &Server{
		config:      config,
		rateLimiter: rate.NewLimiter(config.RateLimit, config.RateLimitBurst),
		predictor:   predictor,
		started:     time.Now(),
	}

	s.httpServer = &http.Server{
		Addr:              config.addr(),
		Handler:           s.setupRoutes(),
		ReadTimeout:       config.ReadTimeout,
		ReadHeaderTimeout: config.ReadHeaderTimeout,
		WriteTimeout:      config.WriteTimeout,
		IdleTimeout:       config.IdleTimeout,
		ErrorLog:          logging.NewLogLogger(slog.LevelWarn),
	}

	return s, nil
}

// Handler returns the root handler including CORS.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) SetReady(ready bool) {
	s.ready.Store(ready)
}

func (s *Server) IsReady() bool {
	return s.ready.Load()
}

// Addr is the bound listener address, or nil before Start has bound it.
func (s *Server) Addr() net.Addr {
	a, _ := s.addr.Load().(net.Addr)
	return a
}

// Start binds the listener, reports ready, and serves until ctx is done.
// Shutdown drains in-flight predictions for at most ShutdownTimeout.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}
	s.addr.Store(ln.Addr())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := s.httpServer.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		// the parent ctx is already cancelled here
		return s.Shutdown(context.WithoutCancel(gctx))
	})

	s.SetReady(true)
	slog.Info("accepting predictions", "address", ln.Addr().String())

	err = g.Wait()
	s.SetReady(false)
	return err
}

// Shutdown stops accepting predictions and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.SetReady(false)

	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	slog.Info("draining requests", "timeout", s.config.ShutdownTimeout)
	return s.httpServer.Shutdown(ctx)
}

// Run serves predictor until ctx is cancelled or the process receives
// SIGINT or SIGTERM.
func Run(ctx context.Context, config *Config, predictor Predictor) error {
	server, err := NewServer(config, predictor)
	if err != nil {
		return err
	}

	slog.Info("serving crop recommendations",
		"name", server.config.Name,
		"version", server.config.Version,
		"clientDir", server.config.ClientDir,
		"rateLimit", float64(server.config.RateLimit),
		"rateBurst", server.config.RateLimitBurst,
		"shutdownTimeout", server.config.ShutdownTimeout)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
