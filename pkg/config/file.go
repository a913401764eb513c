package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is looked up in the working directory when no --config
// flag is given.
const DefaultConfigFile = ".perfmon.yaml"

// fileConfig is the YAML shape of the optional config file. All fields are
// optional; zero values leave the in-memory defaults untouched.
type fileConfig struct {
	Interval      string  `yaml:"interval"` // e.g. "250ms"
	Duration      string  `yaml:"duration"` // e.g. "30s"
	GracePeriod   string  `yaml:"grace_period"`
	Source        string  `yaml:"source"`
	CoreThreshold float64 `yaml:"core_threshold"`
	MaxOutput     int     `yaml:"max_output"`
	OutputDir     string  `yaml:"output_dir"`
	Export        string  `yaml:"export"`
	Legacy        bool    `yaml:"legacy"`
}

// LoadFile merges the YAML config file into c. Values for flags the user
// set explicitly are left alone; changed reports those flag names. A
// missing default file is not an error; a missing explicit --config is.
func (c *Config) LoadFile(changed func(flag string) bool) error {
	path := c.ConfigFile
	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}
	if changed == nil {
		changed = func(string) bool { return false }
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return nil
		}
		return fmt.Errorf("reading config %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return c.merge(&fc, path, changed)
}

func (c *Config) merge(fc *fileConfig, path string, changed func(string) bool) error {
	parse := func(field, raw string) (time.Duration, error) {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return 0, fmt.Errorf("config %s: %s: %w", path, field, err)
		}
		return d, nil
	}

	if fc.Interval != "" && !changed("interval") {
		d, err := parse("interval", fc.Interval)
		if err != nil {
			return err
		}
		c.Interval = d
	}
	if fc.Duration != "" && !changed("duration") {
		d, err := parse("duration", fc.Duration)
		if err != nil {
			return err
		}
		c.Duration = d
	}
	if fc.GracePeriod != "" && !changed("grace") {
		d, err := parse("grace_period", fc.GracePeriod)
		if err != nil {
			return err
		}
		c.GracePeriod = d
	}
	if fc.Source != "" && !changed("source") {
		c.Source = fc.Source
	}
	if fc.CoreThreshold > 0 && !changed("core-threshold") {
		c.ActiveCoreThreshold = fc.CoreThreshold
	}
	if fc.MaxOutput > 0 && !changed("max-output") {
		c.MaxOutput = fc.MaxOutput
	}
	if fc.OutputDir != "" && !changed("output-dir") {
		c.OutputDir = fc.OutputDir
	}
	if fc.Export != "" && !changed("export") {
		c.ExportFormat = fc.Export
	}
	if fc.Legacy && !changed("legacy") {
		c.Legacy = true
	}
	return nil
}
