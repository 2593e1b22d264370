package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"codeatlas/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration under .codeatlas/",
	Long: `Create .codeatlas/config.json with the default settings. An existing
configuration is left untouched.

Examples:
  codeatlas init
  codeatlas init --repo-root /path/to/repo`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	path := filepath.Join(repoRootFlag, ".codeatlas", "config.json")
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("configuration already exists at %s", path)
	}

	if err := config.DefaultConfig().Save(repoRootFlag); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "wrote %s\n", path)
	return nil
}
