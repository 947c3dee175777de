// Package ratelimit provides per-identity sliding-window rate limiting for
// the public submission endpoint. The in-memory store suits a single-instance
// deployment; the Redis store serves multi-instance deployments behind the
// same interface.
package ratelimit

import (
	"context"
	"time"
)

// Limiter decides whether a request from an identity may proceed. The
// prune-count-admit step is atomic per identity: two concurrent requests can
// never both slip through at the limit boundary.
type Limiter interface {
	// Allow records the request and reports whether it is admitted.
	// Identity is an opaque key, typically a hashed client IP.
	Allow(ctx context.Context, identity string, limit int, window time.Duration) (bool, error)
}
