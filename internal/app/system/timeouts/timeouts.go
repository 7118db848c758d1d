// Package timeouts provides the deadlines handlers put on store calls.
//
// Store reads never block on disk, so the deadlines mostly bound how long a
// mutation waits for its collection's write slot. Values can be set at
// startup with Configure; otherwise the defaults apply.
//
// Guidelines:
//   - Health: liveness checks against the data files
//   - Lookup: reads of one collection
//   - Mutation: read-modify-write cycles, including the wait for the
//     collection's write slot and the file write
package timeouts

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Default timeout values (used if Configure is not called).
const (
	DefaultHealth   = 2 * time.Second
	DefaultLookup   = 5 * time.Second
	DefaultMutation = 10 * time.Second
)

var mu sync.RWMutex

var (
	health   = DefaultHealth
	lookup   = DefaultLookup
	mutation = DefaultMutation
)

// Health returns the timeout for health checks.
func Health() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return health
}

// Lookup returns the timeout for reads.
func Lookup() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return lookup
}

// Mutation returns the timeout for writes.
func Mutation() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return mutation
}

// Config holds timeout values. Zero values are ignored.
type Config struct {
	Health   time.Duration
	Lookup   time.Duration
	Mutation time.Duration
}

// Configure sets custom timeout values, keeping the current value for any
// zero field. Call it during startup before handlers are registered.
func Configure(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	if cfg.Health > 0 {
		health = cfg.Health
	}
	if cfg.Lookup > 0 {
		lookup = cfg.Lookup
	}
	if cfg.Mutation > 0 {
		mutation = cfg.Mutation
	}
}

// Reset restores the defaults.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	health = DefaultHealth
	lookup = DefaultLookup
	mutation = DefaultMutation
}

// Current returns the values in effect.
func Current() Config {
	mu.RLock()
	defer mu.RUnlock()
	return Config{Health: health, Lookup: lookup, Mutation: mutation}
}

// WithTimeout creates a context with timeout whose cancel function logs a
// warning when the deadline was hit.
//
//	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Mutation(), h.Log, "add team users")
//	defer cancel()
func WithTimeout(parent context.Context, timeout time.Duration, log *zap.Logger, operation string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	return ctx, func() {
		if ctx.Err() == context.DeadlineExceeded && log != nil {
			log.Warn("operation timed out",
				zap.String("operation", operation),
				zap.Duration("timeout", timeout),
			)
		}
		cancel()
	}
}
