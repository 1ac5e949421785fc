package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ludo-technologies/depscope/internal/version"
	"github.com/ludo-technologies/depscope/service"
)

func versionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			asJSON, _ := cmd.Flags().GetBool("json")
			full, _ := cmd.Flags().GetBool("full")

			out := cmd.OutOrStdout()
			switch {
			case asJSON:
				return service.WriteJSON(out, version.GetInfo())
			case full:
				fmt.Fprintln(out, version.GetFullVersion())
			default:
				fmt.Fprintf(out, "depscope version %s\n", version.GetVersion())
			}
			return nil
		},
	}

	cmd.Flags().Bool("json", false, "Print build information as JSON")
	cmd.Flags().Bool("full", false, "Show detailed version information")
	return cmd
}
