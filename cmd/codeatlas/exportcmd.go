package main

import (
	"os"

	"github.com/spf13/cobra"

	"codeatlas/internal/export"
)

var (
	exportFormat   string
	exportCompress bool
	exportOutput   string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the package graph to a portable document",
	Long: `Export the stored graph as JSON, YAML, or TOML, optionally zstd-compressed.

Examples:
  codeatlas export --format yaml
  codeatlas export --format json --compress -o atlas.json.zst`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "", "Output format (json, yaml, toml); defaults to the configured format")
	exportCmd.Flags().BoolVar(&exportCompress, "compress", false, "Compress the output with zstd")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Write to a file instead of stdout")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	cat, cfg, _, err := openCatalog(cmd.Context(), true, false)
	if err != nil {
		return err
	}
	defer cat.Close()

	name := exportFormat
	if name == "" {
		name = cfg.Export.Format
	}
	format, err := export.ParseFormat(name)
	if err != nil {
		return err
	}
	compress := exportCompress || cfg.Export.Compress

	out := os.Stdout
	if exportOutput != "" {
		f, err := os.Create(exportOutput)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	views := cat.Graph(cmd.Context())
	return export.Write(out, views, export.Options{Format: format, Compress: compress})
}
