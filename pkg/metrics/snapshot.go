// Package metrics defines the sampled data model: snapshots, the per-run
// sample series, run results, and derived summaries.
package metrics

// Snapshot is one instantaneous reading of process and system metrics.
// JSON tags match the persisted run document contract.
type Snapshot struct {
	Timestamp           float64   `json:"timestamp"`
	ProcessCPU          float64   `json:"process_cpu"`
	ProcessMemoryMB     float64   `json:"process_memory_mb"`
	ProcessThreads      int       `json:"process_threads"`
	SystemCPUAvg        float64   `json:"system_cpu_avg"`
	SystemCPUCores      []float64 `json:"system_cpu_cores,omitempty"`
	CoresActive         int       `json:"cores_active"`
	SystemMemoryMB      float64   `json:"system_memory_mb"`
	SystemMemoryPercent float64   `json:"system_memory_percent"`

	// VirtualMB is only populated by the text-tool sources, which report
	// virtual size alongside RSS.
	VirtualMB float64 `json:"virtual_mb,omitempty"`
}

// Series is the ordered accumulation of snapshots for a single run.
// It has exactly one writer (the sampler) and is read by the supervisor
// only after the sampler has been joined.
type Series []Snapshot

// Append adds a snapshot in capture order.
func (s *Series) Append(snap Snapshot) {
	*s = append(*s, snap)
}

// Len returns the number of collected samples.
func (s Series) Len() int { return len(s) }

// First returns the first snapshot and whether one exists.
func (s Series) First() (Snapshot, bool) {
	if len(s) == 0 {
		return Snapshot{}, false
	}
	return s[0], true
}

// Last returns the last snapshot and whether one exists.
func (s Series) Last() (Snapshot, bool) {
	if len(s) == 0 {
		return Snapshot{}, false
	}
	return s[len(s)-1], true
}

// Duration is the span between the first and last sample timestamps in
// seconds. Fewer than two samples yield 0.
func (s Series) Duration() float64 {
	if len(s) < 2 {
		return 0
	}
	return s[len(s)-1].Timestamp - s[0].Timestamp
}
