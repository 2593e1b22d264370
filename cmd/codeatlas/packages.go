package main

import (
	"github.com/spf13/cobra"
)

var packagesCmd = &cobra.Command{
	Use:   "packages",
	Short: "List stored packages with dependency summaries",
	Long: `List every stored package with its module count and declared dependencies.
Internal dependency targets appear as entity ids, external ones as names.

Examples:
  codeatlas packages`,
	Args: cobra.NoArgs,
	RunE: runPackages,
}

func init() {
	rootCmd.AddCommand(packagesCmd)
}

func runPackages(cmd *cobra.Command, args []string) error {
	cat, _, _, err := openCatalog(cmd.Context(), true, false)
	if err != nil {
		return err
	}
	defer cat.Close()

	return printJSON(cat.ListPackages(cmd.Context()))
}
