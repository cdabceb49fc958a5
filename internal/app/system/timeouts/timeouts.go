// Package timeouts provides centralized timeout values for handler operations.
//
// Guidelines for choosing a timeout:
//   - Ping: health checks and connectivity verification
//   - Lookup: single-document reads such as resolving the session user
//   - Fetch: calls to the dashboard backend
//
// Values are set once at startup with Configure; zero values keep the defaults.
package timeouts

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Default timeout values (used if Configure is not called).
const (
	DefaultPing   = 2 * time.Second
	DefaultLookup = 5 * time.Second
	DefaultFetch  = 10 * time.Second
)

var (
	mu     sync.RWMutex
	ping   = DefaultPing
	lookup = DefaultLookup
	fetch  = DefaultFetch
)

// Ping returns the timeout for health checks.
func Ping() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return ping
}

// Lookup returns the timeout for single-document reads.
func Lookup() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return lookup
}

// Fetch returns the timeout for one dashboard backend request.
func Fetch() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return fetch
}

// Config holds timeout configuration values.
// Zero values are ignored (current values are kept).
type Config struct {
	Ping   time.Duration
	Lookup time.Duration
	Fetch  time.Duration
}

// Configure sets custom timeout values. Call during startup before handlers
// are registered.
func Configure(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	if cfg.Ping > 0 {
		ping = cfg.Ping
	}
	if cfg.Lookup > 0 {
		lookup = cfg.Lookup
	}
	if cfg.Fetch > 0 {
		fetch = cfg.Fetch
	}
}

// Reset restores all timeouts to their default values.
// Useful for testing.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	ping = DefaultPing
	lookup = DefaultLookup
	fetch = DefaultFetch
}

// Current returns the current timeout configuration.
func Current() Config {
	mu.RLock()
	defer mu.RUnlock()
	return Config{Ping: ping, Lookup: lookup, Fetch: fetch}
}

// WithTimeout creates a context with timeout and returns a cancel function that
// logs a warning if the context ended because the deadline passed.
//
//	ctx, cancel := timeouts.WithTimeout(viewCtx, timeouts.Fetch(), h.Log, "student dashboard fetch")
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
