// Package server serves the HR attrition dashboard over HTTP: an HTML page,
// JSON/YAML/CSV report endpoints, PNG charts, health and metrics.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/spektr-org/hrpulse/config"
	"github.com/spektr-org/hrpulse/metrics"
	"github.com/spektr-org/hrpulse/render"
	"github.com/spektr-org/hrpulse/report"
)

// Server represents the HTTP server.
type Server struct {
	router       *mux.Router
	httpServer   *http.Server
	generator    *report.Generator
	metrics      *metrics.Metrics
	errorHandler *errorHandler
	logger       *zap.Logger
	cfg          *config.Config
	dataPath     string
	chartSize    render.Size
}

// NewServer creates a new HTTP server. m may be nil when metrics are off.
func NewServer(cfg *config.Config, gen *report.Generator, m *metrics.Metrics, logger *zap.Logger) *Server {
	router := mux.NewRouter()

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &Server{
		router:       router,
		httpServer:   httpServer,
		generator:    gen,
		metrics:      m,
		errorHandler: &errorHandler{logger: logger},
		logger:       logger,
		cfg:          cfg,
		dataPath:     cfg.Dataset.Path,
		chartSize:    render.Size{Width: cfg.Render.Width, Height: cfg.Render.Height},
	}
}

// SetupRoutes configures all HTTP routes.
func (s *Server) SetupRoutes() {
	middlewareChain := []func(http.Handler) http.Handler{
		Recovery(s.logger),
		RequestID,
		Logging(s.logger),
	}
	if s.metrics != nil {
		middlewareChain = append(middlewareChain, Instrument(s.metrics))
	}
	if s.cfg.RateLimiter.Enabled {
		rateLimiter := NewRateLimiter(
			s.cfg.RateLimiter.RequestsPerSecond,
			s.cfg.RateLimiter.BurstSize,
			s.logger,
		)
		middlewareChain = append(middlewareChain, rateLimiter.Limit)
	}
	chain := Chain(middlewareChain...)
	s.router.Use(mux.MiddlewareFunc(chain))

	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	s.router.HandleFunc("/ready", s.handleReady).Methods(http.MethodGet)
	if s.metrics != nil && s.cfg.Metrics.Enabled {
		s.router.Handle(s.cfg.Metrics.Path, s.metrics.Handler()).Methods(http.MethodGet)
	}

	s.router.HandleFunc("/", s.handlePage).Methods(http.MethodGet)
	s.router.HandleFunc("/charts/{id:[a-z_]+}.png", s.handleChartPNG).Methods(http.MethodGet)

	s.router.HandleFunc("/api/report", s.handleReport).Methods(http.MethodGet)
	s.router.HandleFunc("/api/kpis", s.handleKPIs).Methods(http.MethodGet)
	s.router.HandleFunc("/api/job-roles", s.handleJobRoles).Methods(http.MethodGet)
	s.router.HandleFunc("/api/charts", s.handleChartList).Methods(http.MethodGet)
	s.router.HandleFunc("/api/charts/{id}", s.handleChart).Methods(http.MethodGet)

	// mux skips Use middleware when no route matches, so these are wrapped
	// in the same chain explicitly.
	s.router.NotFoundHandler = chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.errorHandler.write(w, r, http.StatusNotFound, ErrorCodeNotFound, "endpoint not found")
	}))
	s.router.MethodNotAllowedHandler = chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.errorHandler.write(w, r, http.StatusMethodNotAllowed, ErrorCodeInvalidRequest, "method not allowed")
	}))
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server",
		zap.Int("port", s.cfg.Server.Port),
		zap.String("dataset", s.dataPath),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

// GetHandler returns the http.Handler for the server.
func (s *Server) GetHandler() http.Handler {
	return s.router
}
