package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"palette-hq/scout/pkg/classifier"
	"palette-hq/scout/pkg/config"
	"palette-hq/scout/pkg/design"
	"palette-hq/scout/pkg/generator"
	"palette-hq/scout/pkg/history"
	"palette-hq/scout/pkg/ruleset"
	"palette-hq/scout/pkg/telemetry/health"
	"palette-hq/scout/pkg/telemetry/metrics"
)

// Rules classifies text and reports its rule source. *ruleset.Manager
// implements it.
type Rules interface {
	Analyze(text string) classifier.MessageAnalysis
	Status() ruleset.Status
}

// Generator is the Gemini relay. *generator.Client implements it.
type Generator interface {
	GenerateBrief(ctx context.Context, text string, analysis *classifier.MessageAnalysis) (string, error)
	AnalyzeReferenceImage(ctx context.Context, data []byte, mimeType string) (string, error)
}

// Recorder stores history asynchronously. *recorder.Recorder implements it.
type Recorder interface {
	Record(record *history.Record) (string, error)
}

// Deps are the components behind the API. Rules is required; a nil
// Generator makes the generation endpoints answer 503, a nil History makes
// the history endpoints answer 503.
type Deps struct {
	Rules     Rules
	Generator Generator
	Designs   *design.Generator
	History   history.Storage
	Recorder  Recorder
	Metrics   *metrics.Collector
	Query     config.QueryConfig
	Logger    *slog.Logger
}

// Server is the scout HTTP API.
type Server struct {
	config     config.ServerConfig
	metricsCfg config.MetricsConfig
	deps       Deps
	logger     *slog.Logger
	checker    *health.Checker

	mu         sync.Mutex
	httpServer *http.Server
	running    bool
}

// New creates a server. It does not listen until Start.
func New(cfg config.ServerConfig, metricsCfg config.MetricsConfig, deps Deps) (*Server, error) {
	if deps.Rules == nil {
		return nil, errors.New("server: rules are required")
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Query.DefaultLimit <= 0 {
		deps.Query.DefaultLimit = config.DefaultQueryDefaultLimit
	}
	if deps.Query.MaxLimit <= 0 {
		deps.Query.MaxLimit = config.DefaultQueryMaxLimit
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = config.DefaultMaxBodyBytes
	}
	if metricsCfg.Path == "" {
		metricsCfg.Path = config.DefaultMetricsPath
	}

	checker := health.New(0)
	checker.Register("rules", func(context.Context) error {
		if st := deps.Rules.Status(); st.LastError != "" {
			return errors.New(st.LastError)
		}
		return nil
	})
	if deps.History != nil {
		store := deps.History
		checker.Register("history", func(ctx context.Context) error {
			_, err := store.Count(ctx, &history.Query{})
			return err
		})
	}

	return &Server{
		config:     cfg,
		metricsCfg: metricsCfg,
		deps:       deps,
		logger:     deps.Logger.With("component", "server"),
		checker:    checker,
	}, nil
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /v1/analyze", s.handleAnalyze)
	mux.HandleFunc("POST /v1/report", s.handleReport)
	mux.HandleFunc("POST /v1/brief", s.handleBrief)
	mux.HandleFunc("POST /v1/mockup", s.handleMockup)
	mux.HandleFunc("GET /v1/designs", s.handleListDesigns)
	mux.HandleFunc("GET /v1/designs/{id}/export", s.handleExportDesign)
	mux.HandleFunc("POST /v1/images/analyze", s.handleImageAnalyze)
	mux.HandleFunc("GET /v1/history", s.handleHistoryList)
	mux.HandleFunc("GET /v1/history/{id}", s.handleHistoryGet)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /health/ready", s.handleReady)
	if s.metricsCfg.Enabled {
		mux.Handle("GET "+s.metricsCfg.Path, s.deps.Metrics.Handler())
	}

	var h http.Handler = mux
	h = http.MaxBytesHandler(h, s.config.MaxBodyBytes)
	h = Logging(s.logger)(h)
	h = Recovery(s.logger)(h)
	h = RequestID(h)
	return h
}

// Start listens on the configured address and serves until ctx is done, then
// shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.ListenAddress)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.config.ListenAddress, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("server is already running")
	}
	s.httpServer = &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}
	s.running = true
	srv := s.httpServer
	s.mu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting API server", "address", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("server error: %w", err)
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	case err := <-errCh:
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
		return err
	}
}

// Shutdown stops the server, waiting up to ShutdownTimeout for requests in
// flight.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.httpServer
	running := s.running
	s.running = false
	s.mu.Unlock()

	if !running || srv == nil {
		return nil
	}

	s.logger.Info("initiating graceful shutdown", "timeout", s.config.ShutdownTimeout.String())
	if s.config.ShutdownTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.ShutdownTimeout)
		defer cancel()
	}
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}
	s.logger.Info("API server stopped")
	return nil
}

// IsRunning reports whether the server is serving.
func (s *Server) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

var _ Generator = (*generator.Client)(nil)
