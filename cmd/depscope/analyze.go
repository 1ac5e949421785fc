package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ludo-technologies/depscope/app"
	"github.com/ludo-technologies/depscope/domain"
	"github.com/ludo-technologies/depscope/internal/watch"
	"github.com/ludo-technologies/depscope/service"
)

var (
	analyzeFormat       string
	analyzeOutputPath   string
	analyzeOutputDir    string
	analyzeConfigPath   string
	analyzeNoProgress   bool
	analyzeWatch        bool
	analyzeDetectErrors bool
	analyzeDOTGroupDirs bool
	analyzeDOTRankDir   string
)

func analyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [path]",
		Short: "Analyze the dependency graph of a project",
		Long: `Build the dependency graph of a JavaScript/TypeScript project and report
hotspots, orphaned files, circular dependencies and health scores.

Examples:
  depscope analyze
  depscope analyze src/
  depscope analyze --format markdown --output report.md
  depscope analyze --format prompt | pbcopy
  depscope analyze --output-dir reports/
  depscope analyze --watch`,
		Args: cobra.MaximumNArgs(1),
		RunE: runAnalyze,
	}

	cmd.Flags().StringVarP(&analyzeFormat, "format", "f", "",
		"Output format: text, json, yaml, markdown, prompt, compact, relationship, dot, mermaid")
	cmd.Flags().StringVarP(&analyzeOutputPath, "output", "o", "",
		"Write the report to a file instead of stdout")
	cmd.Flags().StringVarP(&analyzeOutputDir, "output-dir", "d", "",
		"Also export markdown, prompt, compact, relationship, dot and mermaid reports into a directory")
	cmd.Flags().StringVarP(&analyzeConfigPath, "config", "c", "",
		"Path to config file")
	cmd.Flags().BoolVar(&analyzeNoProgress, "no-progress", false,
		"Disable the progress bar")
	cmd.Flags().BoolVarP(&analyzeWatch, "watch", "w", false,
		"Re-run the analysis whenever a source file changes")
	cmd.Flags().BoolVar(&analyzeDetectErrors, "detect-errors", false,
		"Report unresolved imports, circular pairs and unused exports")
	cmd.Flags().BoolVar(&analyzeDOTGroupDirs, "dot-group-dirs", false,
		"Cluster files by directory in DOT output")
	cmd.Flags().StringVar(&analyzeDOTRankDir, "dot-rankdir", "TB",
		"DOT layout direction: TB, LR, BT, RL")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, req, err := loadProject(analyzeConfigPath, rootArg(args))
	if err != nil {
		return err
	}

	if analyzeFormat != "" {
		req.OutputFormat = domain.OutputFormat(analyzeFormat)
	}
	if analyzeOutputPath != "" {
		req.OutputPath = analyzeOutputPath
	}
	if analyzeOutputDir != "" {
		req.OutputDir = analyzeOutputDir
	}
	if cmd.Flags().Changed("detect-errors") {
		req.DetectErrors = analyzeDetectErrors
	}
	if req.OutputPath == "" {
		req.OutputWriter = cmd.OutOrStdout()
	}
	req.ShowProgress = req.ShowProgress && !analyzeNoProgress && !analyzeWatch

	dot := service.DefaultDOTFormatterConfig()
	dot.GroupByDirectory = analyzeDOTGroupDirs
	dot.RankDir = strings.ToUpper(analyzeDOTRankDir)
	formatter := service.NewOutputFormatter().WithDOTConfig(dot)

	ctx, cancel := signalContext()
	defer cancel()

	if err := analyzeOnce(ctx, req, formatter, cmd.ErrOrStderr()); err != nil {
		return err
	}
	if !analyzeWatch {
		return nil
	}

	opts := watch.DefaultOptions()
	opts.IgnoredFolders = cfg.Scan.IgnoredFolders
	opts.Extensions = cfg.Scan.IncludeExtensions

	w, err := watch.New(req.Root, func(changes []watch.Change) {
		slog.Info("changes detected", "files", len(changes))
		if err := analyzeOnce(ctx, req, formatter, cmd.ErrOrStderr()); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		}
	}, opts)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Watching %s for changes (Ctrl+C to stop)...\n", req.Root)
	return w.Run(ctx)
}

// analyzeOnce runs one analysis and reports the written files on status
func analyzeOnce(ctx context.Context, req *domain.AnalysisRequest, formatter *service.OutputFormatterImpl, status io.Writer) error {
	pm := service.NewProgressManager(req.ShowProgress)
	defer pm.Close()

	svc, finish := newAnalysisService(pm)
	defer finish()

	executor := service.NewParallelExecutor(
		service.WithMaxConcurrency(req.MaxGoroutines),
		service.WithTaskTimeout(req.Timeout),
		service.WithTaskLogger(slog.Default()),
	)

	uc, err := app.NewAnalyzeUseCaseBuilder().
		WithAnalyzer(svc).
		WithFormatter(formatter).
		WithExporter(service.NewReportExporter(formatter, executor, slog.Default())).
		WithLogger(slog.Default()).
		Build()
	if err != nil {
		return err
	}

	result, err := uc.Execute(ctx, *req)
	if err != nil {
		return err
	}

	if result.OutputPath != "" {
		fmt.Fprintf(status, "Report written to %s\n", result.OutputPath)
	}
	for _, path := range result.Exported {
		fmt.Fprintf(status, "Exported %s\n", path)
	}
	return nil
}
