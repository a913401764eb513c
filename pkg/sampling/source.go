// Package sampling provides the metric sources and the sampling loop that
// feed a run's sample series.
package sampling

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/taikt/sw-task/pkg/metrics"
)

// Target identifies the workload being sampled. The PID drives the native
// source and the thread-count lookup; the command name drives the text-tool
// row matching.
type Target struct {
	PID  int32
	Name string
}

// Source yields one metrics snapshot per call. Each call is a stateless
// instantaneous read; CPU percentages are measured against the previous
// call's window, so the first call after creation is a warm-up value.
type Source interface {
	Name() string
	Sample(target Target) (metrics.Snapshot, error)
}

// Sentinel errors for source failures.
var (
	// ErrNoSuchProcess means the target disappeared between ticks. The
	// sampling loop treats it as a clean exit, not an error.
	ErrNoSuchProcess = errors.New("no such process")

	// ErrToolUnavailable means the backing utility cannot be invoked.
	ErrToolUnavailable = errors.New("monitoring tool unavailable")
)

// DefaultActiveCoreThreshold is the utilization percentage above which a
// core counts as active. Heuristic, overridable via Options.
const DefaultActiveCoreThreshold = 5.0

// Default cadences. The text tools get a finer cadence to offset parsing
// noise. Both are overridable configuration, not fixed behavior.
const (
	DefaultNativeInterval = 500 * time.Millisecond
	DefaultTextInterval   = 100 * time.Millisecond
)

// Kind selects a metric source implementation.
type Kind string

const (
	KindAuto   Kind = "auto" // native, falling back to a text tool
	KindNative Kind = "native"
	KindText   Kind = "text" // probe for top, fall back to ps
	KindTop    Kind = "top"
	KindPS     Kind = "ps"
)

// ParseKind validates a source name from configuration.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindAuto, KindNative, KindText, KindTop, KindPS:
		return Kind(s), nil
	case "":
		return KindAuto, nil
	default:
		return "", fmt.Errorf("unknown metric source %q (valid: auto, native, text, top, ps)", s)
	}
}

// DefaultInterval returns the default cadence for a source kind.
func DefaultInterval(k Kind) time.Duration {
	switch k {
	case KindTop, KindPS, KindText:
		return DefaultTextInterval
	default:
		return DefaultNativeInterval
	}
}

// Options tunes source construction.
type Options struct {
	// ActiveCoreThreshold overrides DefaultActiveCoreThreshold when > 0.
	ActiveCoreThreshold float64
}

func (o Options) threshold() float64 {
	if o.ActiveCoreThreshold > 0 {
		return o.ActiveCoreThreshold
	}
	return DefaultActiveCoreThreshold
}

// probeTimeout bounds the trial invocation used by DetectTextTool.
const probeTimeout = 2 * time.Second

// DetectTextTool probes once for a usable text tool, preferring top in
// non-interactive single-iteration mode and falling back to ps.
func DetectTextTool() Kind {
	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()

	if err := exec.CommandContext(ctx, "top", "-b", "-n", "1").Run(); err == nil {
		return KindTop
	}
	return KindPS
}

// New builds a source for the given kind. KindAuto resolves to the native
// source; KindText resolves the preferred text tool once via DetectTextTool.
func New(kind Kind, opts Options) (Source, error) {
	switch kind {
	case KindAuto, KindNative:
		return NewNativeSource(opts), nil
	case KindText:
		return New(DetectTextTool(), opts)
	case KindTop:
		return NewTopSource(), nil
	case KindPS:
		return NewPSSource(), nil
	default:
		return nil, fmt.Errorf("unknown metric source %q", kind)
	}
}
