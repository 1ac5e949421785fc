package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/ludo-technologies/depscope/internal/config"
	"github.com/ludo-technologies/depscope/internal/server"
	"github.com/ludo-technologies/depscope/internal/telemetry"
	"github.com/ludo-technologies/depscope/service"
)

var (
	serveAddress    string
	serveConfigPath string
	serveNoMetrics  bool
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analysis engine over HTTP",
		Long: `Start an HTTP API that analyzes posted file structures and serves the
reports, change impact and token estimates of stored analyses.

Endpoints:
  POST /v1/analyses
  GET  /v1/analyses/:id
  GET  /v1/analyses/:id/reports/:format
  GET  /v1/analyses/:id/impact?file=
  GET  /v1/analyses/:id/tokens/:format
  GET  /v1/health
  GET  /metrics

Examples:
  depscope serve
  depscope serve --address :9090`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().StringVarP(&serveAddress, "address", "a", "", "Listen address (default from config, :8080)")
	cmd.Flags().StringVarP(&serveConfigPath, "config", "c", "", "Path to config file")
	cmd.Flags().BoolVar(&serveNoMetrics, "no-metrics", false, "Disable tracing and the /metrics endpoint")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigWithTarget(serveConfigPath, ".")
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if serveAddress != "" {
		cfg.Server.Address = serveAddress
	}

	ctx, cancel := signalContext()
	defer cancel()

	if !serveNoMetrics {
		shutdown, err := telemetry.Init(ctx, telemetry.DefaultConfig())
		if err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(shutdownCtx); err != nil {
				slog.Warn("telemetry shutdown failed", "error", err)
			}
		}()
	}

	if !verbose {
		gin.SetMode(gin.ReleaseMode)
	}

	logger := slog.Default()
	srv := server.New(server.Config{
		Address:           cfg.Server.Address,
		MaxStoredAnalyses: cfg.Server.MaxStoredAnalyses,
		Logger:            logger,
	}, service.NewAnalysisService(nil, service.WithLogger(logger)))

	fmt.Fprintf(cmd.ErrOrStderr(), "depscope API listening on %s\n", cfg.Server.Address)
	return srv.Run(ctx)
}
