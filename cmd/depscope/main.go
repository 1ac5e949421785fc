package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ludo-technologies/depscope/internal/version"
)

var (
	// Version information (set via ldflags during build)
	Version = version.Version

	verbose bool
)

func main() {
	rootCmd := newRootCmd()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitCode(err))
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "depscope",
		Short: "depscope - dependency graph analyzer for JavaScript/TypeScript projects",
		Long: `depscope builds the file-level dependency graph of a JavaScript/TypeScript
project and reports hotspots, orphaned files, circular dependencies, change
impact and LLM-ready summaries.`,
		Version: Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogger(verbose)
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(analyzeCmd())
	rootCmd.AddCommand(impactCmd())
	rootCmd.AddCommand(tokensCmd())
	rootCmd.AddCommand(checkCmd())
	rootCmd.AddCommand(initCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(askCmd())
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

// exitCode prints err and returns the process exit code
func exitCode(err error) int {
	var exitErr *CheckExitError
	if errors.As(err, &exitErr) {
		if exitErr.Message != "" {
			fmt.Fprintf(os.Stderr, "Error: %s\n", exitErr.Message)
		}
		// Output already printed
		return exitErr.Code
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return 1
}

// setupLogger installs a text handler on stderr as the default logger
func setupLogger(debug bool) {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}
