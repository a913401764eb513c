// Package commands provides the CLI command implementations.
package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/taikt/sw-task/pkg/config"
)

// Cfg is the shared configuration instance.
var Cfg = config.New()

// NewRootCmd creates the root command with all subcommands.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "perfmon",
		Short: "Process performance supervisor",
		Long: `perfmon launches a workload process, samples its resource consumption
(CPU, resident memory, threads, active cores) at a fixed cadence, and
persists the resulting time series with derived summary statistics.

Commands:
  run        Launch a workload and monitor it until exit or timeout
  summary    Print the summary statistics of a saved run document
  snapshot   Capture a single metrics snapshot of a running process
  probe      Report which metric sources are usable on this host`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().BoolVarP(&Cfg.Verbose, "verbose", "v", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&Cfg.ConfigFile, "config", "", "Config file path (default: .perfmon.yaml)")

	root.AddCommand(
		NewRunCmd(),
		NewSummaryCmd(),
		NewSnapshotCmd(),
		NewProbeCmd(),
	)
	return root
}

// Execute runs the root command with signal-aware cancellation.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
