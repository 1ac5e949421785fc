package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/ludo-technologies/depscope/domain"
	"github.com/ludo-technologies/depscope/internal/constants"
	"github.com/ludo-technologies/depscope/service"
)

// CheckExitError is a custom error type for check command exit codes
type CheckExitError struct {
	Code    int
	Message string
}

func (e *CheckExitError) Error() string {
	return e.Message
}

var (
	checkMaxCycles          int
	checkMinMaintainability int
	checkMaxDepth           int
	checkAllowOrphans       bool
	checkVerbose            bool
	checkJSON               bool
	checkConfigPath         string
)

func checkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [path]",
		Short: "Dependency health gate for CI/CD pipelines",
		Long: `Analyze the project and check it against configurable thresholds.

Exit codes:
  0 - All checks pass
  1 - Threshold(s) violated
  2 - Analysis error (path not found, invalid config, etc.)

Examples:
  # Basic check with configured thresholds
  depscope check

  # No cycles, maintainability of at least 60
  depscope check --max-cycles 0 --min-maintainability 60 src/

  # Fail on orphaned files
  depscope check --allow-orphans=false

  # JSON output for machine parsing
  depscope check --json`,
		Args:          cobra.MaximumNArgs(1),
		RunE:          runCheck,
		SilenceUsage:  true, // Don't print usage on errors (we handle our own output)
		SilenceErrors: true, // Don't print error messages (we handle our own output)
	}

	cmd.Flags().IntVar(&checkMaxCycles, "max-cycles", 0,
		"Maximum allowed dependency cycles")
	cmd.Flags().IntVar(&checkMinMaintainability, "min-maintainability", 0,
		"Minimum maintainability score (0-100, 0 = disabled)")
	cmd.Flags().IntVar(&checkMaxDepth, "max-depth", 0,
		"Maximum dependency chain depth (0 = disabled)")
	cmd.Flags().BoolVar(&checkAllowOrphans, "allow-orphans", true,
		"Allow files with no imports and no importers")
	cmd.Flags().BoolVar(&checkVerbose, "details", false,
		"List every cycle and orphan")
	cmd.Flags().BoolVar(&checkJSON, "json", false,
		"Output results as JSON")
	cmd.Flags().StringVarP(&checkConfigPath, "config", "c", "",
		"Path to config file")

	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	startTime := time.Now()
	checkVerbose = checkVerbose || verbose

	cfg, req, err := loadProject(checkConfigPath, rootArg(args))
	if err != nil {
		return &CheckExitError{Code: constants.ExitCodeError, Message: err.Error()}
	}

	// Config values apply to flags not explicitly set on the command line
	thresholds := cfg.Check.Thresholds()
	if cmd.Flags().Changed("max-cycles") {
		thresholds.MaxCycles = checkMaxCycles
	}
	if cmd.Flags().Changed("min-maintainability") {
		thresholds.MinMaintainability = checkMinMaintainability
	}
	if cmd.Flags().Changed("max-depth") {
		thresholds.MaxDepth = checkMaxDepth
	}
	if cmd.Flags().Changed("allow-orphans") {
		thresholds.AllowOrphans = checkAllowOrphans
	}

	ctx, cancel := signalContext()
	defer cancel()

	pm := service.NewProgressManager(!checkJSON && req.ShowProgress)
	defer pm.Close()

	svc, finish := newAnalysisService(pm)
	resp, _, err := svc.AnalyzeProject(ctx, *req)
	finish()
	if err != nil {
		return &CheckExitError{Code: constants.ExitCodeError, Message: err.Error()}
	}

	result := service.NewCheckService(thresholds, checkVerbose).Evaluate(resp, time.Since(startTime))

	out := cmd.OutOrStdout()
	if checkJSON {
		if err := service.WriteJSON(out, result); err != nil {
			return &CheckExitError{Code: constants.ExitCodeError, Message: fmt.Sprintf("failed to encode JSON: %v", err)}
		}
	} else {
		outputCheckText(out, result, thresholds)
	}

	if !result.Passed {
		return &CheckExitError{Code: result.ExitCode}
	}
	return nil
}

func outputCheckText(w io.Writer, result *domain.CheckResult, thresholds domain.CheckThresholds) {
	s := result.Summary
	if result.Passed {
		fmt.Fprintln(w, "PASS: All dependency checks passed")
		if checkVerbose {
			fmt.Fprintf(w, "  Files analyzed: %d\n", s.FilesAnalyzed)
			fmt.Fprintf(w, "  Circular dependencies: %d (max: %d)\n", s.CircularDependencies, thresholds.MaxCycles)
			fmt.Fprintf(w, "  Maintainability: %d (%s)\n", s.Maintainability, s.HealthGrade)
			fmt.Fprintf(w, "  Duration: %dms\n", result.Duration)
		}
		return
	}

	fmt.Fprintln(w, "FAIL: Dependency check failed")
	fmt.Fprintf(w, "  Violations: %d\n", s.TotalViolations)

	for _, v := range result.Violations {
		severity := "ERROR"
		if v.Severity == "warning" {
			severity = "WARN"
		}
		fmt.Fprintf(w, "  [%s] %s: %s\n", severity, v.Rule, v.Message)
		if checkVerbose && v.Location != "" {
			fmt.Fprintf(w, "         at %s\n", v.Location)
		}
	}

	if checkVerbose {
		fmt.Fprintf(w, "\nSummary:\n")
		fmt.Fprintf(w, "  Files: %d\n", s.FilesAnalyzed)
		fmt.Fprintf(w, "  Circular dependencies: %d\n", s.CircularDependencies)
		fmt.Fprintf(w, "  Max depth: %d\n", s.MaxDepth)
		fmt.Fprintf(w, "  Orphans: %d\n", s.Orphans)
		fmt.Fprintf(w, "  Maintainability: %d (%s)\n", s.Maintainability, s.HealthGrade)
		fmt.Fprintf(w, "  Duration: %dms\n", result.Duration)
	}
}
