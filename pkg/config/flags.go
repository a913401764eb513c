package config

import (
	"github.com/spf13/cobra"
)

// AddSamplingFlags adds metric-source and cadence flags to a command.
func (c *Config) AddSamplingFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.DurationVar(&c.Interval, "interval", c.Interval,
		"Sampling cadence (default: 500ms native, 100ms text tools)")
	flags.StringVar(&c.Source, "source", c.Source,
		"Metric source: auto, native, text, top, ps")
	flags.Float64Var(&c.ActiveCoreThreshold, "core-threshold", c.ActiveCoreThreshold,
		"Utilization % above which a core counts as active")
}

// AddRunFlags adds run-protocol flags to a command.
func (c *Config) AddRunFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.DurationVarP(&c.Duration, "duration", "d", c.Duration,
		"Monitoring duration limit (0 = run until exit)")
	flags.DurationVar(&c.GracePeriod, "grace", c.GracePeriod,
		"Wait between graceful termination and forced kill")
	flags.IntVar(&c.MaxOutput, "max-output", c.MaxOutput,
		"Per-stream workload output capture cap in bytes")
}

// AddOutputFlags adds output flags to a command.
func (c *Config) AddOutputFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&c.OutputDir, "output-dir", c.OutputDir, "Output directory")
	flags.StringVarP(&c.OutputName, "output", "o", c.OutputName,
		"Output document path (auto-generated if empty)")
	flags.StringVar(&c.ExportFormat, "export", c.ExportFormat,
		"Also export the raw series: jsonl, csv, tsv, parquet")
	flags.BoolVar(&c.Legacy, "legacy", c.Legacy,
		"Write the flat-array document form regardless of source")
}
