package main

import (
	"github.com/spf13/cobra"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Print the fully hydrated package graph",
	Long: `Print every stored package with its modules, classes, interfaces, members,
and resolved relationships as one nested JSON document.

Examples:
  codeatlas graph
  codeatlas graph > atlas.json`,
	Args: cobra.NoArgs,
	RunE: runGraph,
}

func init() {
	rootCmd.AddCommand(graphCmd)
}

func runGraph(cmd *cobra.Command, args []string) error {
	cat, _, _, err := openCatalog(cmd.Context(), true, false)
	if err != nil {
		return err
	}
	defer cat.Close()

	return printJSON(cat.Graph(cmd.Context()))
}
