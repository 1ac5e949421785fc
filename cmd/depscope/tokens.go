package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ludo-technologies/depscope/app"
	"github.com/ludo-technologies/depscope/service"
)

var (
	tokensJSON       bool
	tokensConfigPath string
)

func tokensCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokens [path]",
		Short: "Estimate the LLM token cost of each report",
		Long: `Render every report format and print its approximate token count
(one token per four characters).

Examples:
  depscope tokens
  depscope tokens src/ --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: runTokens,
	}

	cmd.Flags().BoolVar(&tokensJSON, "json", false, "Output estimates as JSON")
	cmd.Flags().StringVarP(&tokensConfigPath, "config", "c", "", "Path to config file")

	return cmd
}

func runTokens(cmd *cobra.Command, args []string) error {
	_, req, err := loadProject(tokensConfigPath, rootArg(args))
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	svc, finish := newAnalysisService(nil)
	defer finish()

	_, engine, err := svc.AnalyzeProject(ctx, *req)
	if err != nil {
		return err
	}

	estimates := app.EstimateTokens(engine)
	out := cmd.OutOrStdout()
	if tokensJSON {
		return service.WriteJSON(out, estimates)
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FORMAT\tTOKENS")
	for _, e := range estimates {
		fmt.Fprintf(tw, "%s\t%d\n", e.Format, e.Tokens)
	}
	return tw.Flush()
}
