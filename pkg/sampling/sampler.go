package sampling

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/taikt/sw-task/pkg/metrics"
)

// Sampler drives periodic sampling of one source, independent of the
// workload's lifetime. Samples are appended strictly in capture order; a
// failed read becomes a zero-filled placeholder so the cadence stays
// isochronous.
type Sampler struct {
	source   Source
	interval time.Duration
	logger   *zap.Logger
}

// NewSampler creates a sampler with the given cadence. A zero interval
// falls back to the source kind's default.
func NewSampler(source Source, interval time.Duration, logger *zap.Logger) *Sampler {
	if interval <= 0 {
		interval = DefaultInterval(Kind(source.Name()))
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sampler{source: source, interval: interval, logger: logger}
}

// Interval returns the effective cadence.
func (s *Sampler) Interval() time.Duration { return s.interval }

// Run samples the target until the context is cancelled or the target
// vanishes, and returns the collected series. Cancellation is cooperative:
// it is observed at the next tick boundary, so no sample is ever partially
// written. The returned series must only be read after Run returns.
func (s *Sampler) Run(ctx context.Context, target Target) metrics.Series {
	var series metrics.Series

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		snap, err := s.source.Sample(target)
		switch {
		case errors.Is(err, ErrNoSuchProcess):
			// Target gone between ticks. Clean exit, not an error.
			s.logger.Debug("target vanished, stopping sampler",
				zap.Int32("pid", target.PID),
				zap.Int("samples", series.Len()))
			return series
		case err != nil:
			s.logger.Warn("sample failed, recording zero-filled placeholder",
				zap.String("source", s.source.Name()),
				zap.Error(err))
			series.Append(metrics.Snapshot{Timestamp: metrics.Now()})
		default:
			series.Append(snap)
		}

		select {
		case <-ctx.Done():
			return series
		case <-ticker.C:
		}
	}
}
