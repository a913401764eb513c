package sampling

import (
	"strconv"
	"strings"

	"github.com/taikt/sw-task/pkg/metrics"
)

// top batch rows: PID USER PR NI VIRT RES SHR S %CPU %MEM TIME+ COMMAND
const (
	topMinFields = 11
	topColPID    = 0
	topColVirt   = 4
	topColRes    = 5
	topColCPU    = 8
)

// TopSource samples by parsing `top` in non-interactive single-iteration
// wide mode. Parsing is deliberately forgiving: one bad read yields a
// zero-filled snapshot, never a failed run.
type TopSource struct {
	run  commandRunner
	self string
}

// NewTopSource creates a top-backed source.
func NewTopSource() *TopSource {
	return &TopSource{run: runTool, self: selfName()}
}

func (s *TopSource) Name() string { return "top" }

// Sample invokes top once and extracts the target's row. A missing row or
// any parse failure returns a zero-filled snapshot.
func (s *TopSource) Sample(target Target) (metrics.Snapshot, error) {
	snap := metrics.Snapshot{Timestamp: metrics.Now()}

	out, err := s.run("top", "-b", "-n", "1", "-w", "512")
	if err != nil {
		return snap, nil
	}

	for _, line := range strings.Split(string(out), "\n") {
		if !matchesTarget(line, target.Name, "top", s.self) {
			continue
		}
		if s.parseRow(line, &snap) {
			break
		}
	}
	return snap, nil
}

// parseRow extracts VIRT/RES/%CPU by fixed column position. Returns false
// when the line does not parse so the scan can continue.
func (s *TopSource) parseRow(line string, snap *metrics.Snapshot) bool {
	fields := strings.Fields(line)
	if len(fields) < topMinFields {
		return false
	}

	virtKB, err := parseMemoryKB(fields[topColVirt])
	if err != nil {
		return false
	}
	resKB, err := parseMemoryKB(fields[topColRes])
	if err != nil {
		return false
	}
	cpuPercent, err := strconv.ParseFloat(fields[topColCPU], 64)
	if err != nil {
		return false
	}

	snap.VirtualMB = virtKB / kbPerMB
	snap.ProcessMemoryMB = resKB / kbPerMB
	snap.ProcessCPU = cpuPercent
	snap.ProcessThreads = threadCount(s.run, fields[topColPID])
	return true
}
