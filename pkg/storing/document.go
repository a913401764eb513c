// Package storing persists run results as structured documents and exports
// raw sample series in secondary formats.
package storing

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/taikt/sw-task/pkg/metrics"
)

// RunDocument is the persisted form of a run. It is the sole contract
// between this core and the reporting layer; loading it reconstructs an
// equivalent RunResult.
type RunDocument struct {
	RunID     string             `json:"run_id,omitempty"`
	Command   string             `json:"command,omitempty"`
	StartTime float64            `json:"start_time"`
	EndTime   float64            `json:"end_time"`
	Duration  float64            `json:"duration"`
	ExitCode  int                `json:"exit_code"`
	Stdout    string             `json:"stdout,omitempty"`
	Stderr    string             `json:"stderr,omitempty"`
	Metrics   []metrics.Snapshot `json:"metrics"`
}

// NewRunDocument builds the document form of a result.
func NewRunDocument(r *metrics.RunResult) *RunDocument {
	return &RunDocument{
		RunID:     r.RunID,
		Command:   r.Command,
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
		Duration:  r.Duration,
		ExitCode:  r.ExitCode,
		Stdout:    r.Stdout,
		Stderr:    r.Stderr,
		Metrics:   r.Series,
	}
}

// Result reconstructs the RunResult the document was built from.
func (d *RunDocument) Result() *metrics.RunResult {
	return &metrics.RunResult{
		RunID:     d.RunID,
		Command:   d.Command,
		StartTime: d.StartTime,
		EndTime:   d.EndTime,
		Duration:  d.Duration,
		ExitCode:  d.ExitCode,
		Stdout:    d.Stdout,
		Stderr:    d.Stderr,
		Series:    metrics.Series(d.Metrics),
	}
}

// SaveRun writes the run document to path, creating parent directories as
// needed.
func SaveRun(path string, r *metrics.RunResult) error {
	return writeJSON(path, NewRunDocument(r))
}

// LoadRun reads a run document back into a RunResult.
func LoadRun(path string) (*metrics.RunResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading run document: %w", err)
	}
	var doc RunDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing run document %s: %w", path, err)
	}
	return doc.Result(), nil
}

func writeJSON(path string, v interface{}) error {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling document: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
