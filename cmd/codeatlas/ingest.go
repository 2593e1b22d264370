package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"codeatlas/internal/ingest"
	"codeatlas/internal/model"
)

var ingestReset bool

var ingestCmd = &cobra.Command{
	Use:   "ingest <bundle.json>",
	Short: "Ingest a parser output bundle into the store",
	Long: `Ingest reads a parser-produced JSON bundle, writes its entities into the
store, and resolves type relationships against everything already stored.
Re-ingesting the same bundle is a no-op.

Examples:
  codeatlas ingest parse-output.json
  codeatlas ingest parse-output.json --reset`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().BoolVar(&ingestReset, "reset", false,
		"Delete the existing store before ingesting")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	pr, err := model.LoadParseResult(args[0])
	if err != nil {
		return err
	}

	cat, _, logger, err := openCatalog(cmd.Context(), false, ingestReset)
	if err != nil {
		return err
	}
	defer cat.Close()

	summary, err := ingest.New(cat.Store(), logger).Run(cmd.Context(), pr)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "ingested %s: %d entities across %d modules (%d relationships resolved, %d unresolved) in %s\n",
		pr.Package.Name, summary.Entities, summary.Modules,
		summary.Resolution.Resolved, summary.Resolution.Unresolved, summary.Duration.Round(timeRound))
	return nil
}
