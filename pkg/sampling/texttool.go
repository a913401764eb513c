package sampling

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// commandRunner invokes a system utility and returns its combined stdout.
// Tests substitute canned output here.
type commandRunner func(name string, args ...string) ([]byte, error)

// toolTimeout bounds each utility invocation so one hung tool cannot stall
// the sampling cadence for long.
const toolTimeout = 3 * time.Second

func runTool(name string, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), toolTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, name, args...).Output()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return out, nil
}

// selfName is the monitor's own command name, excluded from row matching so
// the tool never samples its own invocation.
func selfName() string {
	return filepath.Base(os.Args[0])
}

// Memory unit scale factors relative to KB, as printed by top.
const (
	kbPerKB = 1
	kbPerMB = 1024
	kbPerGB = 1024 * 1024
)

// parseMemoryKB converts a top-style memory field to KB. Values may carry a
// K, M or G suffix; bare numbers are already KB.
func parseMemoryKB(field string) (float64, error) {
	s := strings.ToUpper(strings.TrimSpace(field))
	if s == "" {
		return 0, fmt.Errorf("empty memory field")
	}

	scale := float64(kbPerKB)
	switch s[len(s)-1] {
	case 'G':
		scale = kbPerGB
		s = s[:len(s)-1]
	case 'M':
		scale = kbPerMB
		s = s[:len(s)-1]
	case 'K':
		s = s[:len(s)-1]
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("memory field %q: %w", field, err)
	}
	return v * scale, nil
}

// threadCount looks up the target's thread count with a secondary ps query.
// This is independent of the main sample; any failure yields 0 and is never
// fatal.
func threadCount(run commandRunner, pid string) int {
	out, err := run("ps", "-o", "nlwp", "-p", pid)
	if err != nil {
		return 0
	}
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	if len(lines) < 2 {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(lines[1]))
	if err != nil {
		return 0
	}
	return n
}

// matchesTarget reports whether a tool output line belongs to the target,
// excluding the monitor's own invocation and the tool's own row.
func matchesTarget(line, targetName, toolName, self string) bool {
	if targetName == "" || strings.TrimSpace(line) == "" {
		return false
	}
	if !strings.Contains(line, targetName) {
		return false
	}
	if self != "" && self != targetName && strings.Contains(line, self) {
		return false
	}
	if toolName != targetName && strings.Contains(line, toolName) {
		return false
	}
	return true
}
