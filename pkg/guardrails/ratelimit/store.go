package ratelimit

import (
	"context"
	"time"
)

// Store tracks per-key request counters over sliding windows. Implementations
// are injected into the input validator so rate state is never a process-wide
// singleton.
type Store interface {
	// Increment records one hit for key within the window and returns the
	// resulting count. The hit is recorded unconditionally: callers decide
	// afterwards whether the count exceeds their limit.
	Increment(ctx context.Context, key string, window time.Duration) (int, error)
}
