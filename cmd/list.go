package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/ecmprep/core/competition"
	coremetrics "github.com/kilianp07/ecmprep/core/metrics"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered adoption schemes and metrics sinks",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "schemes:")
		for _, n := range competition.Names() {
			fmt.Fprintf(out, "  %s\n", n)
		}
		fmt.Fprintln(out, "sinks:")
		for _, n := range coremetrics.SinkNames() {
			fmt.Fprintf(out, "  %s\n", n)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
