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
	"sync"
	"syscall"

	"parallax-hq/explainer/pkg/config"
	"parallax-hq/explainer/pkg/proxy"
	"parallax-hq/explainer/pkg/proxy/handlers"
	"parallax-hq/explainer/pkg/proxy/middleware"
	"parallax-hq/explainer/pkg/proxy/types"
	sectls "parallax-hq/explainer/pkg/security/tls"
	"parallax-hq/explainer/pkg/telemetry/health"
)

// Metrics is the metrics collector the server records into and exposes.
type Metrics interface {
	middleware.Recorder
	Handler() http.Handler
}

// Tracer wraps handlers in server spans.
type Tracer interface {
	Middleware(next http.Handler) http.Handler
}

// Option configures optional server collaborators.
type Option func(*Server)

// WithBudgetReporter exposes ledger status at GET /budget.
func WithBudgetReporter(r handlers.BudgetReporter) Option {
	return func(s *Server) { s.budget = r }
}

// WithMetrics records request metrics and exposes them at the configured path.
func WithMetrics(m Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// WithTracer starts a server span per request.
func WithTracer(t Tracer) Option {
	return func(s *Server) { s.tracer = t }
}

// WithReadiness serves GET /ready from checker.
func WithReadiness(checker *health.Checker) Option {
	return func(s *Server) { s.readiness = checker }
}

// WithVersion sets the version reported by /health and /version.
func WithVersion(version, commit string) Option {
	return func(s *Server) {
		s.version = version
		s.commit = commit
	}
}

// Server is the parallax HTTP server.
type Server struct {
	config       *config.Config
	orchestrator handlers.Orchestrator

	budget    handlers.BudgetReporter
	metrics   Metrics
	tracer    Tracer
	readiness *health.Checker
	version   string
	commit    string

	httpServer *http.Server
	listener   net.Listener
	reloader   *sectls.CertificateReloader
	ready      chan struct{}

	shutdownChan chan struct{}
	shutdownOnce sync.Once
	mu           sync.RWMutex
	started      bool
	isRunning    bool
}

// NewServer creates a server for o.
func NewServer(cfg *config.Config, o handlers.Orchestrator, opts ...Option) *Server {
	s := &Server{
		config:       cfg,
		orchestrator: o,
		version:      "dev",
		ready:        make(chan struct{}),
		shutdownChan: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start listens on server.listen_address and blocks until shutdown. A
// server can be started once.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return fmt.Errorf("server has already been started")
	}
	s.started = true
	s.isRunning = true
	s.mu.Unlock()

	srvCfg := &s.config.Server

	ln, err := net.Listen("tcp", srvCfg.ListenAddress)
	if err != nil {
		s.setStopped()
		return fmt.Errorf("failed to listen on %s: %w", srvCfg.ListenAddress, err)
	}

	s.httpServer = &http.Server{
		Handler:        s.Handler(),
		ReadTimeout:    srvCfg.ReadTimeout,
		WriteTimeout:   srvCfg.WriteTimeout,
		IdleTimeout:    srvCfg.IdleTimeout,
		MaxHeaderBytes: srvCfg.MaxHeaderBytes,
		ErrorLog:       slog.NewLogLogger(slog.Default().Handler(), slog.LevelWarn),
	}

	if srvCfg.TLS.Enabled {
		if err := s.configureTLS(); err != nil {
			ln.Close()
			s.setStopped()
			return fmt.Errorf("failed to configure TLS: %w", err)
		}
	}

	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()
	close(s.ready)

	errChan := make(chan error, 1)
	go func() {
		slog.Info("starting server",
			"address", ln.Addr().String(),
			"tls_enabled", srvCfg.TLS.Enabled,
			"version", s.version,
		)

		var err error
		if srvCfg.TLS.Enabled {
			err = s.httpServer.ServeTLS(ln, "", "")
		} else {
			err = s.httpServer.Serve(ln)
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case <-ctx.Done():
		slog.Info("context cancelled, initiating shutdown")
	case sig := <-sigChan:
		slog.Info("received shutdown signal", "signal", sig.String())
	case err := <-errChan:
		_ = s.Shutdown(context.Background())
		return err
	case <-s.shutdownChan:
		slog.Info("shutdown requested")
	}

	return s.Shutdown(context.Background())
}

// Ready is closed once the server is listening.
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

// Addr returns the listening address, or nil before Start has bound.
func (s *Server) Addr() net.Addr {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Stop asks a running Start to shut down.
func (s *Server) Stop() {
	select {
	case <-s.shutdownChan:
	default:
		close(s.shutdownChan)
	}
}

// Shutdown gracefully shuts down the server, waiting at most
// server.shutdown_timeout for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if !s.IsRunning() {
			return
		}

		timeout := s.config.Server.ShutdownTimeout
		slog.Info("initiating graceful shutdown", "timeout", timeout.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		if s.httpServer != nil {
			if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
				slog.Error("error during server shutdown", "error", err)
				shutdownErr = fmt.Errorf("server shutdown error: %w", err)
			}
		}
		if s.reloader != nil {
			_ = s.reloader.Close()
		}

		s.setStopped()
		slog.Info("server stopped")
	})

	return shutdownErr
}

// IsRunning returns true if the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

func (s *Server) setStopped() {
	s.mu.Lock()
	s.isRunning = false
	s.mu.Unlock()
}

func (s *Server) configureTLS() error {
	tlsCfg := &s.config.Server.TLS

	reloader, err := sectls.NewCertificateReloader(tlsCfg.CertFile, tlsCfg.KeyFile)
	if err != nil {
		return err
	}
	if err := reloader.Watch(); err != nil {
		return err
	}

	s.reloader = reloader
	s.httpServer.TLSConfig = sectls.NewServerConfig(tlsCfg, reloader)
	return nil
}

// Handler returns the routed handler with the full middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	maxBody := s.config.Server.MaxBodyBytes

	api := func(h http.Handler) http.Handler { return h }
	if rl := s.config.Limits.RateLimit; rl.Enabled {
		api = middleware.RateLimitMiddleware(rl.RequestsPerSecond, rl.Burst)
	}

	mux.Handle("POST /estimate", api(handlers.NewEstimateHandler(s.orchestrator, maxBody)))
	mux.Handle("POST /explain", api(handlers.NewExplainHandler(s.orchestrator, maxBody)))
	mux.Handle("/estimate", methodNotAllowed(http.MethodPost))
	mux.Handle("/explain", methodNotAllowed(http.MethodPost))

	mux.Handle("GET /health", handlers.NewHealthHandler(s.version))
	mux.Handle("GET /version", health.VersionHandler(s.version, s.commit, ""))
	if s.readiness != nil {
		mux.Handle("GET /ready", s.readiness.ReadinessHandler())
	}
	if s.budget != nil {
		mux.Handle("GET /budget", handlers.NewBudgetHandler(s.budget))
	}
	if s.metrics != nil && s.config.Telemetry.Metrics.Enabled {
		mux.Handle("GET "+s.config.Telemetry.Metrics.Path, s.metrics.Handler())
	}

	var handler http.Handler = mux

	var recorder middleware.Recorder
	if s.metrics != nil {
		recorder = s.metrics
	}
	handler = middleware.LoggingMiddleware(recorder)(handler)

	if s.tracer != nil {
		handler = s.tracer.Middleware(handler)
	}

	handler = middleware.RecoveryMiddleware(handler)
	handler = middleware.RequestIDMiddleware(handler)

	return handler
}

func methodNotAllowed(allowed string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Allow", allowed)
		_ = proxy.WriteErrorResponse(w, http.StatusMethodNotAllowed, types.NewErrorResponse(
			fmt.Sprintf("method %s not allowed, use %s", r.Method, allowed),
			types.ReasonMethodNotAllowed,
		))
	})
}
