// Package server exposes the dependency analysis engine over an HTTP API
package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ludo-technologies/depscope/domain"
	"github.com/ludo-technologies/depscope/internal/analyzer"
	"github.com/ludo-technologies/depscope/internal/constants"
	"github.com/ludo-technologies/depscope/internal/telemetry"
)

const shutdownTimeout = 5 * time.Second

// StructureAnalyzer analyzes an already ingested file structure
type StructureAnalyzer interface {
	AnalyzeStructure(ctx context.Context, structure domain.FileStructure, contents map[string]string, detectErrors bool) (*domain.AnalysisResponse, *analyzer.Engine)
}

// Config configures a Server
type Config struct {
	Address           string
	MaxStoredAnalyses int
	Logger            *slog.Logger
}

// Server serves the analysis API
type Server struct {
	config   Config
	analyzer StructureAnalyzer
	store    *analysisStore
	router   *gin.Engine
	logger   *slog.Logger
}

// New creates a server and registers its routes
func New(cfg Config, a StructureAnalyzer) *Server {
	if cfg.Address == "" {
		cfg.Address = constants.DefaultServerAddress
	}
	if cfg.MaxStoredAnalyses <= 0 {
		cfg.MaxStoredAnalyses = constants.DefaultMaxStoredAnalyses
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	s := &Server{
		config:   cfg,
		analyzer: a,
		store:    newAnalysisStore(cfg.MaxStoredAnalyses),
		logger:   cfg.Logger,
	}

	router := gin.New()
	router.Use(gin.Recovery(), s.requestLogger())

	v1 := router.Group("/v1")
	s.registerRoutes(v1)

	if h := telemetry.MetricsHandler(); h != nil {
		router.GET("/metrics", gin.WrapH(h))
	}

	s.router = router
	return s
}

// Handler returns the HTTP handler, for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run listens on the configured address until ctx is canceled, then shuts
// down gracefully
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "address", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.logger.Info("server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
