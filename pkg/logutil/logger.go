// Package logutil holds the shared zap logger for the supervisor.
package logutil

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logger *zap.Logger
	once   sync.Once
)

// InitLogger configures the process-wide logger. Sampling noise goes to
// stderr so captured workload output on stdout stays clean.
func InitLogger(verbose bool) {
	once.Do(func() {
		cfg := zap.NewProductionConfig()
		cfg.OutputPaths = []string{"stderr"}
		cfg.ErrorOutputPaths = []string{"stderr"}
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		l, err := cfg.Build()
		if err != nil {
			l = zap.NewNop()
		}
		logger = l
	})
}

// GetLogger returns the shared logger, initializing a default one if needed.
func GetLogger() *zap.Logger {
	if logger == nil {
		InitLogger(false)
	}
	return logger
}
