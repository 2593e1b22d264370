package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	issuesPackage  string
	issuesSeverity string
)

var issuesCmd = &cobra.Command{
	Use:   "issues [issue-id]",
	Short: "List recorded code issues",
	Long: `List code issues recorded during ingestion, optionally filtered by package
and severity. With an issue id, prints that single issue.

Examples:
  codeatlas issues
  codeatlas issues --package widgets --severity error
  codeatlas issues atlas:codeIssue:9c41...`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIssues,
}

func init() {
	issuesCmd.Flags().StringVar(&issuesPackage, "package", "", "Filter by package name or id")
	issuesCmd.Flags().StringVar(&issuesSeverity, "severity", "", "Filter by severity (error, warning, info)")
	rootCmd.AddCommand(issuesCmd)
}

func runIssues(cmd *cobra.Command, args []string) error {
	cat, _, _, err := openCatalog(cmd.Context(), true, false)
	if err != nil {
		return err
	}
	defer cat.Close()

	if len(args) == 1 {
		issue := cat.CodeIssueByID(cmd.Context(), args[0])
		if issue == nil {
			return fmt.Errorf("no issue with id %q", args[0])
		}
		return printJSON(issue)
	}
	return printJSON(cat.CodeIssues(cmd.Context(), issuesPackage, issuesSeverity))
}
