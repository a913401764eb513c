package storing

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/taikt/sw-task/pkg/metrics"
)

// TopLogDocument is the flat-array document produced for text-tool-backed
// runs. Timestamps are relative to the run start; start/end are wall-clock
// strings.
type TopLogDocument struct {
	Framework  string    `json:"framework"`
	Command    string    `json:"command"`
	StartTime  string    `json:"start_time"`
	EndTime    string    `json:"end_time"`
	Timestamps []float64 `json:"timestamps"`
	MemoryMB   []float64 `json:"memory_mb"`
	CPUPercent []float64 `json:"cpu_percent"`
	Threads    []int     `json:"threads"`
	VirtualMB  []float64 `json:"virtual_mb"`
	Samples    int       `json:"samples"`
	ReturnCode int       `json:"return_code"`
	Stdout     string    `json:"stdout,omitempty"`
	Stderr     string    `json:"stderr,omitempty"`
}

// ClassifyFramework buckets a workload command name for later comparison
// plots: tiger builds vs the sw_task stress binaries.
func ClassifyFramework(commandName string) string {
	name := strings.ToLower(commandName)
	switch {
	case strings.Contains(name, "tiger"):
		return "tiger"
	case strings.Contains(name, "stress_timer"):
		return "sw_task"
	default:
		return "unknown"
	}
}

// NewTopLogDocument builds the flat-array form of a result.
func NewTopLogDocument(r *metrics.RunResult) *TopLogDocument {
	doc := &TopLogDocument{
		Framework:  ClassifyFramework(r.Command),
		Command:    r.Command,
		StartTime:  metrics.ToTime(r.StartTime).Format(time.RFC3339Nano),
		EndTime:    metrics.ToTime(r.EndTime).Format(time.RFC3339Nano),
		Timestamps: make([]float64, 0, r.Series.Len()),
		MemoryMB:   make([]float64, 0, r.Series.Len()),
		CPUPercent: make([]float64, 0, r.Series.Len()),
		Threads:    make([]int, 0, r.Series.Len()),
		VirtualMB:  make([]float64, 0, r.Series.Len()),
		Samples:    r.Series.Len(),
		ReturnCode: r.ExitCode,
		Stdout:     r.Stdout,
		Stderr:     r.Stderr,
	}

	for _, snap := range r.Series {
		doc.Timestamps = append(doc.Timestamps, snap.Timestamp-r.StartTime)
		doc.MemoryMB = append(doc.MemoryMB, snap.ProcessMemoryMB)
		doc.CPUPercent = append(doc.CPUPercent, snap.ProcessCPU)
		doc.Threads = append(doc.Threads, snap.ProcessThreads)
		doc.VirtualMB = append(doc.VirtualMB, snap.VirtualMB)
	}
	return doc
}

// Result reconstructs a RunResult from the flat arrays. Timestamps become
// absolute again relative to the parsed start time.
func (d *TopLogDocument) Result() (*metrics.RunResult, error) {
	start, err := time.Parse(time.RFC3339Nano, d.StartTime)
	if err != nil {
		return nil, fmt.Errorf("parsing start_time: %w", err)
	}
	end, err := time.Parse(time.RFC3339Nano, d.EndTime)
	if err != nil {
		return nil, fmt.Errorf("parsing end_time: %w", err)
	}

	startSec := float64(start.UnixNano()) / 1e9
	r := &metrics.RunResult{
		Command:   d.Command,
		StartTime: startSec,
		EndTime:   float64(end.UnixNano()) / 1e9,
		ExitCode:  d.ReturnCode,
		Stdout:    d.Stdout,
		Stderr:    d.Stderr,
	}

	for i, rel := range d.Timestamps {
		snap := metrics.Snapshot{Timestamp: startSec + rel}
		if i < len(d.MemoryMB) {
			snap.ProcessMemoryMB = d.MemoryMB[i]
		}
		if i < len(d.CPUPercent) {
			snap.ProcessCPU = d.CPUPercent[i]
		}
		if i < len(d.Threads) {
			snap.ProcessThreads = d.Threads[i]
		}
		if i < len(d.VirtualMB) {
			snap.VirtualMB = d.VirtualMB[i]
		}
		r.Series.Append(snap)
	}
	r.Duration = r.Series.Duration()
	return r, nil
}

// SaveTopLog writes the flat-array document to path.
func SaveTopLog(path string, r *metrics.RunResult) error {
	return writeJSON(path, NewTopLogDocument(r))
}

// LoadTopLog reads a flat-array document back into a RunResult.
func LoadTopLog(path string) (*metrics.RunResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading toplog document: %w", err)
	}
	var doc TopLogDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing toplog document %s: %w", path, err)
	}
	return doc.Result()
}

// LoadAny sniffs the document form at path and loads it either way. The
// run document carries a "metrics" array; the toplog form carries parallel
// flat arrays instead.
func LoadAny(path string) (*metrics.RunResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}

	var probe struct {
		Metrics    []json.RawMessage `json:"metrics"`
		Timestamps []float64         `json:"timestamps"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("parsing document %s: %w", path, err)
	}

	if probe.Metrics == nil && probe.Timestamps != nil {
		return LoadTopLog(path)
	}
	return LoadRun(path)
}
