package sampling

import (
	"fmt"
	"os"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"

	"github.com/taikt/sw-task/pkg/metrics"
)

const bytesPerMB = 1024 * 1024

// NativeUsable reports whether direct process inspection works on this
// host, probed once at startup against our own process.
func NativeUsable() bool {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return false
	}
	_, err = p.MemoryInfo()
	return err == nil
}

// NativeSource reads process and system metrics through direct OS process
// inspection. It keeps the process handle across calls so per-process CPU
// percent is measured against the previous call's window.
type NativeSource struct {
	threshold float64
	proc      *process.Process
}

// NewNativeSource creates a native source with the given options.
func NewNativeSource(opts Options) *NativeSource {
	return &NativeSource{threshold: opts.threshold()}
}

func (s *NativeSource) Name() string { return "native" }

// Sample reads one snapshot for the target. A vanished target yields
// ErrNoSuchProcess; system-wide read failures leave zeros in the system
// fields rather than failing the sample.
func (s *NativeSource) Sample(target Target) (metrics.Snapshot, error) {
	if s.proc == nil || s.proc.Pid != target.PID {
		p, err := process.NewProcess(target.PID)
		if err != nil {
			return metrics.Snapshot{}, fmt.Errorf("resolving pid %d: %w", target.PID, ErrNoSuchProcess)
		}
		s.proc = p
	}

	snap := metrics.Snapshot{Timestamp: metrics.Now()}

	cpuPercent, err := s.proc.Percent(0)
	if err != nil {
		return metrics.Snapshot{}, s.vanishedOr(err)
	}
	snap.ProcessCPU = cpuPercent

	memInfo, err := s.proc.MemoryInfo()
	if err != nil {
		return metrics.Snapshot{}, s.vanishedOr(err)
	}
	snap.ProcessMemoryMB = float64(memInfo.RSS) / bytesPerMB

	if threads, err := s.proc.NumThreads(); err == nil {
		snap.ProcessThreads = int(threads)
	}

	if perCore, err := cpu.Percent(0, true); err == nil {
		snap.SystemCPUCores = perCore
		for _, pct := range perCore {
			if pct > s.threshold {
				snap.CoresActive++
			}
		}
	}
	if avg, err := cpu.Percent(0, false); err == nil && len(avg) > 0 {
		snap.SystemCPUAvg = avg[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		snap.SystemMemoryMB = float64(vm.Used) / bytesPerMB
		snap.SystemMemoryPercent = vm.UsedPercent
	}

	return snap, nil
}

// vanishedOr maps read failures on a dead process to ErrNoSuchProcess.
func (s *NativeSource) vanishedOr(err error) error {
	if running, rerr := s.proc.IsRunning(); rerr != nil || !running {
		return fmt.Errorf("pid %d: %w", s.proc.Pid, ErrNoSuchProcess)
	}
	return fmt.Errorf("reading pid %d: %w", s.proc.Pid, err)
}
