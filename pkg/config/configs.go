// Package config provides configuration for the supervisor CLI.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/taikt/sw-task/pkg/sampling"
	"github.com/taikt/sw-task/pkg/storing"
	"github.com/taikt/sw-task/pkg/supervising"
)

// Config holds all supervisor options. Flag values win over config-file
// values, which win over defaults.
type Config struct {
	// Sampling
	Interval            time.Duration // 0 derives the source kind's default
	Source              string        // auto|native|text|top|ps
	ActiveCoreThreshold float64

	// Run protocol
	Duration    time.Duration // 0 runs until the workload exits
	GracePeriod time.Duration
	MaxOutput   int

	// Output
	OutputDir    string
	OutputName   string
	ExportFormat string // optional raw-series export: jsonl, csv, tsv, parquet
	Legacy       bool   // force the flat-array document form

	// Misc
	Verbose    bool
	ConfigFile string
}

// Default configuration values.
const (
	DefaultOutputDir = "."
	DefaultSource    = string(sampling.KindAuto)
)

// New creates a Config with default values.
func New() *Config {
	return &Config{
		Source:              DefaultSource,
		ActiveCoreThreshold: sampling.DefaultActiveCoreThreshold,
		GracePeriod:         supervising.DefaultGracePeriod,
		MaxOutput:           supervising.DefaultMaxOutput,
		OutputDir:           DefaultOutputDir,
	}
}

// ApplyDefaults fills in any missing values.
func (c *Config) ApplyDefaults() {
	if c.Source == "" {
		c.Source = DefaultSource
	}
	if c.ActiveCoreThreshold <= 0 {
		c.ActiveCoreThreshold = sampling.DefaultActiveCoreThreshold
	}
	if c.GracePeriod <= 0 {
		c.GracePeriod = supervising.DefaultGracePeriod
	}
	if c.MaxOutput <= 0 {
		c.MaxOutput = supervising.DefaultMaxOutput
	}
	if c.OutputDir == "" {
		c.OutputDir = DefaultOutputDir
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Interval != 0 && c.Interval < time.Millisecond {
		return fmt.Errorf("interval must be at least 1ms, got %v", c.Interval)
	}
	if c.Duration < 0 {
		return fmt.Errorf("duration cannot be negative, got %v", c.Duration)
	}
	if _, err := sampling.ParseKind(c.Source); err != nil {
		return err
	}
	if c.ExportFormat != "" {
		if _, ok := storing.GetFormat(c.ExportFormat); !ok {
			return fmt.Errorf("invalid export format %q (valid: %s)",
				c.ExportFormat, strings.Join(storing.Formats(), ", "))
		}
	}
	if c.OutputDir != "" {
		if info, err := os.Stat(c.OutputDir); err == nil && !info.IsDir() {
			return fmt.Errorf("output path is not a directory: %s", c.OutputDir)
		}
	}
	return nil
}

// SourceKind returns the validated source kind.
func (c *Config) SourceKind() sampling.Kind {
	k, err := sampling.ParseKind(c.Source)
	if err != nil {
		return sampling.KindAuto
	}
	return k
}

// OutputPath resolves the run document path, auto-generating
// monitor_<name>_<timestamp>.json when no name was given.
func (c *Config) OutputPath(commandName string) string {
	if c.OutputName != "" {
		if filepath.IsAbs(c.OutputName) || c.OutputDir == "" {
			return c.OutputName
		}
		return filepath.Join(c.OutputDir, c.OutputName)
	}
	stamp := time.Now().Format("20060102_150405")
	name := fmt.Sprintf("monitor_%s_%s.json", filepath.Base(commandName), stamp)
	return filepath.Join(c.OutputDir, name)
}
