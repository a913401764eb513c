package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taikt/sw-task/pkg/sampling"
)

// NewProbeCmd creates the probe subcommand.
func NewProbeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "probe",
		Short: "Report which metric sources are usable on this host",
		Run: func(cmd *cobra.Command, args []string) {
			if sampling.NativeUsable() {
				fmt.Println("native: ok (default)")
			} else {
				fmt.Println("native: unavailable")
			}
			fmt.Printf("text tool: %s\n", sampling.DetectTextTool())
		},
	}
}
