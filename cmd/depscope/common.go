package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/ludo-technologies/depscope/domain"
	"github.com/ludo-technologies/depscope/internal/config"
	"github.com/ludo-technologies/depscope/internal/scanner"
	"github.com/ludo-technologies/depscope/service"
)

// loadProject loads the configuration for root, explicit or discovered, and
// turns it into an analysis request for root
func loadProject(configPath, root string) (*config.Config, *domain.AnalysisRequest, error) {
	if root == "" {
		root = "."
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, nil, domain.NewInvalidInputError(fmt.Sprintf("invalid path %s", root), err)
	}

	cfg, err := config.LoadConfigWithTarget(configPath, abs)
	if err != nil {
		return nil, nil, domain.NewConfigError("failed to load configuration", err)
	}

	req := service.NewConfigurationLoader().RequestFromConfig(cfg)
	req.Root = abs
	req.ConfigPath = configPath
	return cfg, req, nil
}

// newAnalysisService wires a scanner, with progress when pm is interactive,
// into an analysis service. The returned finish function completes the
// progress bar.
func newAnalysisService(pm domain.ProgressManager) (*service.AnalysisServiceImpl, func()) {
	logger := slog.Default()
	opts := []scanner.Option{scanner.WithLogger(logger)}

	finish := func() {}
	if pm != nil && pm.IsInteractive() {
		var progress scanner.ProgressFunc
		progress, finish = service.ScanProgress(pm, "Scanning files")
		opts = append(opts, scanner.WithProgress(progress))
	}

	return service.NewAnalysisService(scanner.New(opts...), service.WithLogger(logger)), finish
}

// signalContext is canceled on SIGINT or SIGTERM
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func rootArg(args []string) string {
	if len(args) == 0 {
		return "."
	}
	return args[0]
}
