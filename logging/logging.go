// Package logging wraps the process-wide structured logger every other
// package logs through, with helpers that attach a consistent
// "component" field (Component) and "rank" field (ForRank) regardless of
// which package emits the line.
package logging

import (
	"sync"

	"go.uber.org/zap"
)

var (
	mu     sync.Mutex
	logger *zap.Logger
)

// Init installs the process-wide logger. Safe to call once at process
// startup; subsequent calls replace the logger (tests use this to swap in
// a zaptest-style logger).
func Init(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	logger = l
}

// L returns the process-wide logger, falling back to zap.NewNop if Init
// was never called — a test or library consumer that never configured
// logging should not panic, just stay silent.
func L() *zap.Logger {
	mu.Lock()
	defer mu.Unlock()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

// Component returns a logger scoped to one subsystem, carrying the
// "component" field every log call from that subsystem should include.
func Component(name string) *zap.Logger {
	return L().With(zap.String("component", name))
}

// ForRank returns a logger further scoped with the calling rank.
func ForRank(base *zap.Logger, rank int) *zap.Logger {
	return base.With(zap.Int("rank", rank))
}
