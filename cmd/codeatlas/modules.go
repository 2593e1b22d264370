package main

import (
	"github.com/spf13/cobra"
)

var modulesCmd = &cobra.Command{
	Use:   "modules <package>",
	Short: "Print the hydrated modules of one package",
	Long: `Print the modules of one package, looked up by name or by entity id, with
their classes, interfaces, functions, and module-level declarations.

Examples:
  codeatlas modules widgets
  codeatlas modules atlas:package:3f2a...`,
	Args: cobra.ExactArgs(1),
	RunE: runModules,
}

func init() {
	rootCmd.AddCommand(modulesCmd)
}

func runModules(cmd *cobra.Command, args []string) error {
	cat, _, _, err := openCatalog(cmd.Context(), true, false)
	if err != nil {
		return err
	}
	defer cat.Close()

	return printJSON(cat.Modules(cmd.Context(), args[0]))
}
