package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/taikt/sw-task/pkg/logutil"
	"github.com/taikt/sw-task/pkg/metrics"
	"github.com/taikt/sw-task/pkg/sampling"
	"github.com/taikt/sw-task/pkg/storing"
	"github.com/taikt/sw-task/pkg/supervising"
)

// NewRunCmd creates the run subcommand.
func NewRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Aliases: []string{"r"},
		Use:     "run [flags] -- <command> [args...]",
		Short:   "Launch a workload and monitor it until exit or timeout",
		Long: `Launch a workload process and sample its resource consumption until it
exits or the duration limit fires. The run is persisted as a structured
JSON document; the process exit code mirrors the workload's (-1 sentinel
when the supervisor had to terminate it).

Examples:
  perfmon run -- ./task_runner 10 2
  perfmon run -o result.json -d 60s -- ./stress_timer2 100 10
  perfmon run --source top --export parquet -- python3 train.py`,
		RunE: runRun,
	}

	Cfg.AddSamplingFlags(cmd)
	Cfg.AddRunFlags(cmd)
	Cfg.AddOutputFlags(cmd)
	return cmd
}

func runRun(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("no command specified\nUsage: perfmon run [flags] -- <command> [args...]")
	}

	if err := Cfg.LoadFile(cmd.Flags().Changed); err != nil {
		return err
	}
	Cfg.ApplyDefaults()
	if err := Cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logutil.InitLogger(Cfg.Verbose)
	logger := logutil.GetLogger()
	defer logger.Sync()

	source, err := selectSource(logger)
	if err != nil {
		return err
	}

	sup := &supervising.Supervisor{
		Source:        source,
		Interval:      Cfg.Interval,
		DurationLimit: Cfg.Duration,
		GracePeriod:   Cfg.GracePeriod,
		MaxOutput:     Cfg.MaxOutput,
		Logger:        logger,
	}

	result, err := sup.Run(cmd.Context(), args[0], args[1:])
	if err != nil {
		return err
	}

	if result.Stdout != "" {
		fmt.Fprint(os.Stdout, result.Stdout)
	}
	if result.Stderr != "" {
		fmt.Fprint(os.Stderr, result.Stderr)
	}
	printSummary(os.Stdout, result)

	// A failed persist is fatal, but only after the partial series has
	// been surfaced above.
	path := Cfg.OutputPath(args[0])
	if err := saveRun(path, result, source); err != nil {
		logger.Error("persisting run failed", zap.String("path", path), zap.Error(err))
		return err
	}
	logger.Info("run persisted", zap.String("path", path))

	if Cfg.ExportFormat != "" {
		exportPath := storing.SeriesExportPath(path, Cfg.ExportFormat)
		if err := storing.ExportSeries(exportPath, result.Series); err != nil {
			logger.Error("series export failed", zap.String("path", exportPath), zap.Error(err))
			return err
		}
		logger.Info("series exported", zap.String("path", exportPath))
	}

	if result.ExitCode != 0 {
		os.Exit(result.ExitCode)
	}
	return nil
}

// selectSource resolves the configured source kind, falling back from
// native inspection to a text tool when the preferred source is unusable.
func selectSource(logger *zap.Logger) (sampling.Source, error) {
	kind := Cfg.SourceKind()
	if (kind == sampling.KindAuto || kind == sampling.KindNative) && !sampling.NativeUsable() {
		if kind == sampling.KindNative {
			return nil, fmt.Errorf("native metric source unusable on this host")
		}
		logger.Warn("native source unusable, falling back to text tool")
		kind = sampling.KindText
	}

	source, err := sampling.New(kind, sampling.Options{
		ActiveCoreThreshold: Cfg.ActiveCoreThreshold,
	})
	if err != nil {
		return nil, err
	}
	logger.Info("metric source selected", zap.String("source", source.Name()))
	return source, nil
}

// saveRun picks the document form: flat arrays for text-tool-backed runs
// (or when forced by --legacy), the full run document otherwise.
func saveRun(path string, result *metrics.RunResult, source sampling.Source) error {
	if Cfg.Legacy || source.Name() == "top" || source.Name() == "ps" {
		return storing.SaveTopLog(path, result)
	}
	return storing.SaveRun(path, result)
}
