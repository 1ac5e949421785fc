package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ludo-technologies/depscope/app"
	"github.com/ludo-technologies/depscope/service"
)

var (
	impactRoot       string
	impactFormat     string
	impactConfigPath string
)

func impactCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "impact <file>",
		Short: "Show which files are affected by changing a file",
		Long: `Analyze the project and report the direct and indirect dependents of a
file together with the files it requires.

Examples:
  depscope impact src/lib/utils.ts
  depscope impact lib/utils.ts --root src
  depscope impact src/lib/utils.ts --format json`,
		Args: cobra.ExactArgs(1),
		RunE: runImpact,
	}

	cmd.Flags().StringVarP(&impactRoot, "root", "r", ".", "Project root")
	cmd.Flags().StringVarP(&impactFormat, "format", "f", "markdown", "Output format: markdown, json")
	cmd.Flags().StringVarP(&impactConfigPath, "config", "c", "", "Path to config file")

	return cmd
}

func runImpact(cmd *cobra.Command, args []string) error {
	if impactFormat != "markdown" && impactFormat != "json" {
		return fmt.Errorf("invalid format %q: must be markdown or json", impactFormat)
	}

	_, req, err := loadProject(impactConfigPath, impactRoot)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	svc, finish := newAnalysisService(nil)
	defer finish()

	result, err := app.NewImpactUseCase(svc).Execute(ctx, *req, args[0])
	if err != nil {
		return err
	}

	slog.Debug("impact computed",
		"target", result.Target,
		"affected", len(result.Impact.AllAffectedFiles))

	out := cmd.OutOrStdout()
	if impactFormat == "json" {
		return service.WriteJSON(out, result)
	}
	_, err = fmt.Fprintln(out, result.Report)
	return err
}
