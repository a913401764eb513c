package commands

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/taikt/sw-task/pkg/logutil"
	"github.com/taikt/sw-task/pkg/sampling"
)

var (
	snapshotPID  int32
	snapshotName string
)

// NewSnapshotCmd creates the snapshot subcommand.
func NewSnapshotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Aliases: []string{"ss"},
		Use:     "snapshot --pid <pid> [flags]",
		Short:   "Capture a single metrics snapshot of a running process",
		RunE:    runSnapshot,
	}

	cmd.Flags().Int32Var(&snapshotPID, "pid", 0, "Target process id")
	cmd.Flags().StringVar(&snapshotName, "name", "",
		"Target command name (required for text-tool sources)")
	_ = cmd.MarkFlagRequired("pid")
	Cfg.AddSamplingFlags(cmd)
	return cmd
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	Cfg.ApplyDefaults()
	if err := Cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	logutil.InitLogger(Cfg.Verbose)

	source, err := selectSource(logutil.GetLogger())
	if err != nil {
		return err
	}

	target := sampling.Target{PID: snapshotPID, Name: snapshotName}
	if target.Name == "" && source.Name() != "native" {
		return fmt.Errorf("--name is required with the %s source", source.Name())
	}

	// The first read is a CPU warm-up; sample again after a short window
	// so the percentage is meaningful.
	if _, err := source.Sample(target); err != nil {
		return fmt.Errorf("sampling pid %d: %w", snapshotPID, err)
	}
	time.Sleep(200 * time.Millisecond)

	snap, err := source.Sample(target)
	if err != nil {
		return fmt.Errorf("sampling pid %d: %w", snapshotPID, err)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
