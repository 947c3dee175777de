package ratelimit

import (
	"context"
	"log/slog"
	"time"
)

// Sweepable is implemented by limiter stores that support garbage collection
// of abandoned identities.
type Sweepable interface {
	Sweep(olderThan time.Duration) int
}

// CleanupWorker periodically drops rate-limit entries for identities that
// have gone quiet, bounding memory for abandoned clients. Redis-backed
// limiters expire keys natively and do not need one.
type CleanupWorker struct {
	store      Sweepable
	logger     *slog.Logger
	interval   time.Duration
	staleAfter time.Duration
}

// CleanupOption configures a CleanupWorker.
type CleanupOption func(*CleanupWorker)

// WithLogger sets the worker's logger.
func WithLogger(logger *slog.Logger) CleanupOption {
	return func(w *CleanupWorker) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithInterval overrides the sweep period.
func WithInterval(interval time.Duration) CleanupOption {
	return func(w *CleanupWorker) {
		if interval > 0 {
			w.interval = interval
		}
	}
}

// WithStaleAfter overrides how long an identity may be idle before eviction.
func WithStaleAfter(staleAfter time.Duration) CleanupOption {
	return func(w *CleanupWorker) {
		if staleAfter > 0 {
			w.staleAfter = staleAfter
		}
	}
}

// NewCleanupWorker creates a cleanup worker with a 5-minute period and
// 5-minute staleness threshold.
func NewCleanupWorker(store Sweepable, opts ...CleanupOption) *CleanupWorker {
	w := &CleanupWorker{
		store:      store,
		logger:     slog.Default(),
		interval:   5 * time.Minute,
		staleAfter: 5 * time.Minute,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start runs the sweep loop until the context is cancelled.
func (w *CleanupWorker) Start(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if removed := w.store.Sweep(w.staleAfter); removed > 0 {
				w.logger.Debug("rate limit entries evicted", "removed", removed)
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
