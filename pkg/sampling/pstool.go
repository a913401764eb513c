package sampling

import (
	"strconv"
	"strings"

	"github.com/taikt/sw-task/pkg/metrics"
)

// ps aux rows: USER PID %CPU %MEM VSZ RSS TTY STAT START TIME COMMAND
const (
	psMinFields = 11
	psColPID    = 1
	psColCPU    = 2
	psColVSZ    = 4
	psColRSS    = 5
)

// PSSource samples by parsing `ps aux`. It is the fallback when top is
// unavailable; matching and forgiveness policy are the same.
type PSSource struct {
	run  commandRunner
	self string
}

// NewPSSource creates a ps-backed source.
func NewPSSource() *PSSource {
	return &PSSource{run: runTool, self: selfName()}
}

func (s *PSSource) Name() string { return "ps" }

// Sample invokes ps aux once and extracts the target's row. A missing row
// or any parse failure returns a zero-filled snapshot.
func (s *PSSource) Sample(target Target) (metrics.Snapshot, error) {
	snap := metrics.Snapshot{Timestamp: metrics.Now()}

	out, err := s.run("ps", "aux")
	if err != nil {
		return snap, nil
	}

	for _, line := range strings.Split(string(out), "\n") {
		if !matchesTarget(line, target.Name, "ps", s.self) {
			continue
		}
		if s.parseRow(line, &snap) {
			break
		}
	}
	return snap, nil
}

func (s *PSSource) parseRow(line string, snap *metrics.Snapshot) bool {
	fields := strings.Fields(line)
	if len(fields) < psMinFields {
		return false
	}

	cpuPercent, err := strconv.ParseFloat(fields[psColCPU], 64)
	if err != nil {
		return false
	}
	virtKB, err := strconv.ParseFloat(fields[psColVSZ], 64)
	if err != nil {
		return false
	}
	rssKB, err := strconv.ParseFloat(fields[psColRSS], 64)
	if err != nil {
		return false
	}

	snap.ProcessCPU = cpuPercent
	snap.VirtualMB = virtKB / kbPerMB
	snap.ProcessMemoryMB = rssKB / kbPerMB
	snap.ProcessThreads = threadCount(s.run, fields[psColPID])
	return true
}
