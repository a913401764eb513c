package supervising

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/taikt/sw-task/pkg/metrics"
	"github.com/taikt/sw-task/pkg/sampling"
)

// stubSource returns synthetic snapshots so supervisor tests do not depend
// on host monitoring tools.
type stubSource struct{}

func (stubSource) Name() string { return "native" }

func (stubSource) Sample(sampling.Target) (metrics.Snapshot, error) {
	return metrics.Snapshot{Timestamp: metrics.Now(), ProcessCPU: 1}, nil
}

func newTestSupervisor(limit time.Duration) *Supervisor {
	return &Supervisor{
		Source:        stubSource{},
		Interval:      20 * time.Millisecond,
		DurationLimit: limit,
		GracePeriod:   time.Second,
	}
}

func TestRunNaturalExit(t *testing.T) {
	sup := newTestSupervisor(10 * time.Second)

	start := time.Now()
	result, err := sup.Run(context.Background(), "sh", []string{"-c", "sleep 0.3; exit 0"})
	if err != nil {
		t.Fatal(err)
	}

	if result.ExitCode != 0 {
		t.Errorf("ExitCode = %d; want 0", result.ExitCode)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("supervisor did not return early: took %v", elapsed)
	}
	if result.Series.Len() == 0 {
		t.Error("expected samples from a 300ms workload")
	}
	if result.Duration < 0 {
		t.Errorf("Duration = %v; want >= 0", result.Duration)
	}
	if result.RunID == "" {
		t.Error("RunID not assigned")
	}
}

func TestRunReportsWorkloadExitStatus(t *testing.T) {
	sup := newTestSupervisor(10 * time.Second)

	result, err := sup.Run(context.Background(), "sh", []string{"-c", "exit 7"})
	if err != nil {
		t.Fatal(err)
	}
	if result.ExitCode != 7 {
		t.Errorf("ExitCode = %d; want 7", result.ExitCode)
	}
}

func TestRunTimeoutTerminatesWorkload(t *testing.T) {
	sup := newTestSupervisor(400 * time.Millisecond)

	start := time.Now()
	result, err := sup.Run(context.Background(), "sleep", []string{"30"})
	if err != nil {
		t.Fatal(err)
	}
	elapsed := time.Since(start)

	if result.ExitCode != TimeoutExitCode {
		t.Errorf("ExitCode = %d; want %d", result.ExitCode, TimeoutExitCode)
	}
	if elapsed > 5*time.Second {
		t.Errorf("escalation too slow: %v", elapsed)
	}
	if !result.TimedOut() {
		t.Error("TimedOut() = false; want true")
	}
}

func TestRunCapturesOutput(t *testing.T) {
	sup := newTestSupervisor(10 * time.Second)

	result, err := sup.Run(context.Background(), "sh",
		[]string{"-c", "echo out_marker; echo err_marker >&2"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(result.Stdout, "out_marker") {
		t.Errorf("Stdout = %q; want out_marker", result.Stdout)
	}
	if !strings.Contains(result.Stderr, "err_marker") {
		t.Errorf("Stderr = %q; want err_marker", result.Stderr)
	}
}

func TestRunLaunchFailureIsFatal(t *testing.T) {
	sup := newTestSupervisor(time.Second)

	_, err := sup.Run(context.Background(), "/no/such/executable", nil)
	if err == nil {
		t.Fatal("expected launch failure")
	}
}

func TestRunDurationFromSamples(t *testing.T) {
	sup := newTestSupervisor(10 * time.Second)

	result, err := sup.Run(context.Background(), "sleep", []string{"0.3"})
	if err != nil {
		t.Fatal(err)
	}

	if result.Series.Len() < 2 {
		t.Skipf("only %d samples collected", result.Series.Len())
	}
	first, _ := result.Series.First()
	last, _ := result.Series.Last()
	if want := last.Timestamp - first.Timestamp; result.Duration != want {
		t.Errorf("Duration = %v; want %v (last-first)", result.Duration, want)
	}
}

func TestLimitWriterCapsOutput(t *testing.T) {
	var buf bytes.Buffer
	w := &limitWriter{buf: &buf, limit: 10}

	n, err := w.Write([]byte("0123456789abcdef"))
	if err != nil {
		t.Fatal(err)
	}
	if n != 16 {
		t.Errorf("Write reported %d bytes; want 16 (discard must not short-write)", n)
	}
	if buf.String() != "0123456789" {
		t.Errorf("captured %q; want first 10 bytes", buf.String())
	}

	if _, err := w.Write([]byte("more")); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 10 {
		t.Errorf("buffer grew past limit: %d", buf.Len())
	}
}
