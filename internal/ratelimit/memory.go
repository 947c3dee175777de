package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryLimiter implements Limiter with per-identity timestamp windows held
// in process memory. Entries for abandoned identities are garbage-collected
// by Sweep, normally driven by the cleanup worker.
type MemoryLimiter struct {
	mu      sync.Mutex
	entries map[string]*window
	now     func() time.Time
}

// window holds the request timestamps for one identity within the trailing
// window, oldest first, plus the last time the identity was seen at all.
type window struct {
	timestamps []time.Time
	lastSeen   time.Time
}

// MemoryOption configures a MemoryLimiter.
type MemoryOption func(*MemoryLimiter)

// WithClock overrides the limiter's time source for tests.
func WithClock(now func() time.Time) MemoryOption {
	return func(l *MemoryLimiter) {
		if now != nil {
			l.now = now
		}
	}
}

// NewMemoryLimiter creates an in-memory sliding-window limiter.
func NewMemoryLimiter(opts ...MemoryOption) *MemoryLimiter {
	l := &MemoryLimiter{
		entries: make(map[string]*window),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Allow prunes timestamps older than the window, tests the count against the
// limit, and records the request when admitted. The whole decision runs under
// one lock hold so concurrent requests for the same identity serialize.
func (l *MemoryLimiter) Allow(_ context.Context, identity string, limit int, windowDur time.Duration) (bool, error) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.entries[identity]
	if !ok {
		entry = &window{}
		l.entries[identity] = entry
	}
	entry.lastSeen = now
	entry.prune(now.Add(-windowDur))

	if len(entry.timestamps) >= limit {
		return false, nil
	}
	entry.timestamps = append(entry.timestamps, now)
	return true, nil
}

// Sweep removes identities not seen since the cutoff and returns how many
// were dropped. Safe to interleave with Allow; it only touches entries whose
// whole window has already expired.
func (l *MemoryLimiter) Sweep(olderThan time.Duration) int {
	cutoff := l.now().Add(-olderThan)

	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for identity, entry := range l.entries {
		if entry.lastSeen.Before(cutoff) {
			delete(l.entries, identity)
			removed++
		}
	}
	return removed
}

// Size returns the number of tracked identities.
func (l *MemoryLimiter) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

func (w *window) prune(cutoff time.Time) {
	i := 0
	for ; i < len(w.timestamps); i++ {
		if w.timestamps[i].After(cutoff) {
			break
		}
	}
	w.timestamps = w.timestamps[i:]
}
