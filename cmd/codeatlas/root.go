package main

import (
	"github.com/spf13/cobra"

	"codeatlas/internal/version"
)

var (
	// repoRootFlag is the CLI --repo-root flag value
	repoRootFlag string
	verbosity    int
	quiet        bool
)

var rootCmd = &cobra.Command{
	Use:   "codeatlas",
	Short: "codeatlas - code structure entity graph store",
	Long: `codeatlas stores the entities parsers extract from source trees (packages,
modules, classes, interfaces, functions and their members) in a local SQLite
database, resolves type relationships across packages, and serves the stored
graph back as nested views.`,
	Version: version.Version,
}

func init() {
	rootCmd.SetVersionTemplate("codeatlas version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&repoRootFlag, "repo-root", ".",
		"Directory holding the .codeatlas store and configuration")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"Increase log verbosity (-v info, -vv debug)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false,
		"Suppress all log output")
}
