// Package supervising launches a workload process, samples it concurrently,
// and assembles the finalized run result.
package supervising

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sys/unix"

	"github.com/taikt/sw-task/pkg/metrics"
	"github.com/taikt/sw-task/pkg/sampling"
)

// Defaults for the run protocol.
const (
	DefaultGracePeriod = 5 * time.Second
	DefaultMaxOutput   = 1 << 20 // 1 MB per stream
	samplerJoinWait    = 5 * time.Second
)

// TimeoutExitCode is the sentinel exit code recorded when the supervisor
// terminates the workload at the duration limit.
const TimeoutExitCode = -1

// Supervisor runs one workload under measurement. Zero values fall back to
// the package defaults.
type Supervisor struct {
	Source        sampling.Source
	Interval      time.Duration // sampling cadence; 0 uses the source default
	DurationLimit time.Duration // 0 runs until the workload exits
	GracePeriod   time.Duration // wait between SIGTERM and SIGKILL
	MaxOutput     int           // per-stream capture cap in bytes
	Logger        *zap.Logger
}

// Run launches the workload, samples it until exit or the duration limit,
// and returns the finalized result. Launch failures are fatal and reported
// before any sampling starts; in-loop sampling errors never abort the
// workload.
func (s *Supervisor) Run(ctx context.Context, command string, args []string) (*metrics.RunResult, error) {
	logger := s.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	grace := s.GracePeriod
	if grace <= 0 {
		grace = DefaultGracePeriod
	}
	maxOutput := s.MaxOutput
	if maxOutput <= 0 {
		maxOutput = DefaultMaxOutput
	}

	result := &metrics.RunResult{
		RunID:     uuid.New().String(),
		Command:   command,
		StartTime: metrics.Now(),
	}

	cmd := exec.Command(command, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &limitWriter{buf: &stdout, limit: maxOutput}
	cmd.Stderr = &limitWriter{buf: &stderr, limit: maxOutput}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("launching %s: %w", command, err)
	}

	target := sampling.Target{
		PID:  int32(cmd.Process.Pid),
		Name: filepath.Base(command),
	}
	logger.Info("workload launched",
		zap.String("command", command),
		zap.Int32("pid", target.PID),
		zap.String("source", s.Source.Name()))

	// The sampler owns the series while running; the close of done is the
	// barrier after which the series may be read.
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var series metrics.Series
	done := make(chan struct{})
	sampler := sampling.NewSampler(s.Source, s.Interval, logger)
	go func() {
		defer close(done)
		series = sampler.Run(runCtx, target)
	}()

	waitCh := make(chan error, 1)
	go func() { waitCh <- cmd.Wait() }()

	result.ExitCode = s.awaitExit(cmd, waitCh, logger, grace)

	cancel()
	select {
	case <-done:
	case <-time.After(samplerJoinWait):
		logger.Warn("sampler did not stop within join wait")
	}
	<-done

	result.EndTime = metrics.Now()
	result.Series = series
	result.Duration = series.Duration()
	result.Stdout = stdout.String()
	result.Stderr = stderr.String()

	logger.Info("run finalized",
		zap.Int("exit_code", result.ExitCode),
		zap.Int("samples", series.Len()),
		zap.Float64("duration_s", result.Duration))
	return result, nil
}

// awaitExit blocks until the workload exits or the duration limit fires.
// On timeout it escalates: graceful termination, grace period, forced kill.
func (s *Supervisor) awaitExit(cmd *exec.Cmd, waitCh <-chan error, logger *zap.Logger, grace time.Duration) int {
	if s.DurationLimit <= 0 {
		return exitCode(cmd, <-waitCh)
	}

	limit := time.NewTimer(s.DurationLimit)
	defer limit.Stop()

	select {
	case err := <-waitCh:
		return exitCode(cmd, err)
	case <-limit.C:
	}

	logger.Warn("duration limit reached, terminating workload",
		zap.Duration("limit", s.DurationLimit))
	_ = cmd.Process.Signal(unix.SIGTERM)

	select {
	case <-waitCh:
	case <-time.After(grace):
		logger.Warn("workload ignored SIGTERM, killing",
			zap.Duration("grace", grace))
		_ = cmd.Process.Kill()
		<-waitCh
	}
	return TimeoutExitCode
}

// exitCode extracts the workload's real exit status from Wait's error.
func exitCode(cmd *exec.Cmd, err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	if cmd.ProcessState != nil {
		return cmd.ProcessState.ExitCode()
	}
	return TimeoutExitCode
}

// limitWriter writes up to limit bytes to buf, then silently discards the
// rest so a chatty workload cannot grow the capture without bound.
type limitWriter struct {
	buf   *bytes.Buffer
	limit int
}

func (w *limitWriter) Write(p []byte) (int, error) {
	remaining := w.limit - w.buf.Len()
	if remaining <= 0 {
		return len(p), nil // discard
	}
	if len(p) > remaining {
		w.buf.Write(p[:remaining])
		return len(p), nil
	}
	return w.buf.Write(p)
}
