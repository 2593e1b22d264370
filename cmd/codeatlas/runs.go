package main

import (
	"github.com/spf13/cobra"
)

var runsCmd = &cobra.Command{
	Use:   "runs <package>",
	Short: "Show the ingestion history of a package",
	Long: `Show every recorded ingestion run for a package, newest first, including
entity counts and any recorded failure.

Examples:
  codeatlas runs widgets`,
	Args: cobra.ExactArgs(1),
	RunE: runRuns,
}

func init() {
	rootCmd.AddCommand(runsCmd)
}

func runRuns(cmd *cobra.Command, args []string) error {
	cat, _, _, err := openCatalog(cmd.Context(), true, false)
	if err != nil {
		return err
	}
	defer cat.Close()

	return printJSON(cat.Runs(cmd.Context(), args[0]))
}
