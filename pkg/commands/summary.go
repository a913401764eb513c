package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/taikt/sw-task/pkg/storing"
)

// NewSummaryCmd creates the summary subcommand.
func NewSummaryCmd() *cobra.Command {
	return &cobra.Command{
		Aliases: []string{"sum"},
		Use:     "summary <file>",
		Short:   "Print the summary statistics of a saved run document",
		Long: `Load a persisted run document (either the full form or the flat-array
text-tool form) and print its derived summary statistics.`,
		Args: cobra.ExactArgs(1),
		RunE: runSummary,
	}
}

func runSummary(cmd *cobra.Command, args []string) error {
	result, err := storing.LoadAny(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Run: %s\n", args[0])
	if result.Command != "" {
		fmt.Printf("Command: %s\n", result.Command)
	}
	printSummary(os.Stdout, result)
	return nil
}
