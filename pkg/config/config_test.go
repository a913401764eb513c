package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/taikt/sw-task/pkg/sampling"
	"github.com/taikt/sw-task/pkg/supervising"
)

func TestNewDefaults(t *testing.T) {
	c := New()

	if c.Source != DefaultSource {
		t.Errorf("Source = %q; want %q", c.Source, DefaultSource)
	}
	if c.ActiveCoreThreshold != sampling.DefaultActiveCoreThreshold {
		t.Errorf("ActiveCoreThreshold = %v; want %v",
			c.ActiveCoreThreshold, sampling.DefaultActiveCoreThreshold)
	}
	if c.GracePeriod != supervising.DefaultGracePeriod {
		t.Errorf("GracePeriod = %v; want %v", c.GracePeriod, supervising.DefaultGracePeriod)
	}
	if c.MaxOutput != supervising.DefaultMaxOutput {
		t.Errorf("MaxOutput = %d; want %d", c.MaxOutput, supervising.DefaultMaxOutput)
	}
	if c.Interval != 0 {
		t.Errorf("Interval = %v; want 0 (source decides)", c.Interval)
	}
}

func TestApplyDefaultsFillsZeroValues(t *testing.T) {
	c := &Config{}
	c.ApplyDefaults()

	if c.Source != DefaultSource || c.OutputDir != DefaultOutputDir {
		t.Errorf("defaults not applied: %+v", c)
	}
	if c.GracePeriod != supervising.DefaultGracePeriod {
		t.Errorf("GracePeriod = %v; want %v", c.GracePeriod, supervising.DefaultGracePeriod)
	}

	// Set values survive.
	c = &Config{Source: "top", GracePeriod: 2 * time.Second}
	c.ApplyDefaults()
	if c.Source != "top" || c.GracePeriod != 2*time.Second {
		t.Errorf("ApplyDefaults overwrote set values: %+v", c)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults ok", func(*Config) {}, ""},
		{"sub-millisecond interval", func(c *Config) { c.Interval = 500 * time.Microsecond }, "interval"},
		{"negative duration", func(c *Config) { c.Duration = -time.Second }, "duration"},
		{"unknown source", func(c *Config) { c.Source = "vmstat" }, "source"},
		{"unknown export format", func(c *Config) { c.ExportFormat = "xml" }, "export format"},
		{"export jsonl ok", func(c *Config) { c.ExportFormat = "jsonl" }, ""},
		{"export parquet ok", func(c *Config) { c.ExportFormat = "parquet" }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New()
			c.OutputDir = t.TempDir()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v; want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateOutputDirIsFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "not_a_dir")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	c := New()
	c.OutputDir = file
	if err := c.Validate(); err == nil {
		t.Error("expected error for file output dir")
	}
}

func TestSourceKind(t *testing.T) {
	c := New()
	c.Source = "ps"
	if got := c.SourceKind(); got != sampling.KindPS {
		t.Errorf("SourceKind() = %v; want %v", got, sampling.KindPS)
	}
}

func TestLoadFileMergesUnsetFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "perfmon.yaml")
	yaml := `
interval: 250ms
duration: 30s
grace_period: 2s
source: top
core_threshold: 10
max_output: 4096
output_dir: /tmp/results
export: csv
legacy: true
`
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}

	c := New()
	c.ConfigFile = path
	if err := c.LoadFile(nil); err != nil {
		t.Fatal(err)
	}

	if c.Interval != 250*time.Millisecond {
		t.Errorf("Interval = %v; want 250ms", c.Interval)
	}
	if c.Duration != 30*time.Second {
		t.Errorf("Duration = %v; want 30s", c.Duration)
	}
	if c.GracePeriod != 2*time.Second {
		t.Errorf("GracePeriod = %v; want 2s", c.GracePeriod)
	}
	if c.Source != "top" || c.ActiveCoreThreshold != 10 || c.MaxOutput != 4096 {
		t.Errorf("merged config wrong: %+v", c)
	}
	if c.OutputDir != "/tmp/results" || c.ExportFormat != "csv" || !c.Legacy {
		t.Errorf("merged config wrong: %+v", c)
	}
}

func TestLoadFileFlagWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "perfmon.yaml")
	yaml := "interval: 250ms\nsource: top\ngrace_period: 2s\n"
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}

	c := New()
	c.ConfigFile = path
	c.Interval = time.Second
	c.Source = "native"
	set := map[string]bool{"interval": true, "source": true}
	if err := c.LoadFile(func(f string) bool { return set[f] }); err != nil {
		t.Fatal(err)
	}

	if c.Interval != time.Second {
		t.Errorf("Interval = %v; file value overrode explicit flag", c.Interval)
	}
	if c.Source != "native" {
		t.Errorf("Source = %q; file value overrode explicit flag", c.Source)
	}
	// grace_period was not set on the command line, so the file wins.
	if c.GracePeriod != 2*time.Second {
		t.Errorf("GracePeriod = %v; want 2s from file", c.GracePeriod)
	}
}

func TestLoadFileMissing(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(wd) })

	// No default file present: silently ignored.
	c := New()
	if err := c.LoadFile(nil); err != nil {
		t.Errorf("missing default config file: %v", err)
	}

	// An explicit --config that does not exist is an error.
	c = New()
	c.ConfigFile = "no_such_file.yaml"
	if err := c.LoadFile(nil); err == nil {
		t.Error("expected error for missing explicit config file")
	}
}

func TestLoadFileBadDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "perfmon.yaml")
	if err := os.WriteFile(path, []byte("interval: fast\n"), 0644); err != nil {
		t.Fatal(err)
	}
	c := New()
	c.ConfigFile = path
	if err := c.LoadFile(nil); err == nil {
		t.Error("expected error for unparseable duration")
	}
}

func TestOutputPath(t *testing.T) {
	c := New()
	c.OutputDir = "/data/runs"

	c.OutputName = "result.json"
	if got, want := c.OutputPath("./stress_timer2"), "/data/runs/result.json"; got != want {
		t.Errorf("OutputPath = %q; want %q", got, want)
	}

	c.OutputName = "/abs/result.json"
	if got := c.OutputPath("./stress_timer2"); got != "/abs/result.json" {
		t.Errorf("OutputPath = %q; absolute name must win", got)
	}

	c.OutputName = ""
	got := c.OutputPath("/usr/bin/stress_timer2")
	if !strings.HasPrefix(got, "/data/runs/monitor_stress_timer2_") ||
		!strings.HasSuffix(got, ".json") {
		t.Errorf("auto-generated path = %q", got)
	}
}
