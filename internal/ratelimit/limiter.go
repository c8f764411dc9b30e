// Package ratelimit guards login and registration against brute-force
// attempts with a fixed-window counter per key.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Result reports whether a call is allowed, and if not, how long until the
// window resets.
type Result struct {
	Allowed    bool
	RetryAfter int // seconds
}

// Limiter is the rate-limit abstraction. The in-memory implementation is
// per-process only; horizontally scaled deployments should use the Redis
// implementation so all instances share one counter.
type Limiter interface {
	Check(ctx context.Context, key string, maxAttempts int, window time.Duration) Result
}

type entry struct {
	count   int
	resetAt time.Time
}

// MemoryLimiter keeps counters in process memory. Expired entries are evicted
// lazily on each call, bounding memory without a background sweep. Counters
// reset on process restart.
type MemoryLimiter struct {
	mu      sync.Mutex
	entries map[string]*entry
	now     func() time.Time
}

// NewMemoryLimiter creates an in-memory limiter.
func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{
		entries: make(map[string]*entry),
		now:     time.Now,
	}
}

// Check records an attempt for key and reports whether it is allowed.
func (l *MemoryLimiter) Check(_ context.Context, key string, maxAttempts int, window time.Duration) Result {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for k, v := range l.entries {
		if !v.resetAt.After(now) {
			delete(l.entries, k)
		}
	}

	e, ok := l.entries[key]
	if !ok {
		l.entries[key] = &entry{count: 1, resetAt: now.Add(window)}
		return Result{Allowed: true}
	}

	e.count++
	if e.count > maxAttempts {
		retryAfter := int((e.resetAt.Sub(now) + time.Second - 1) / time.Second)
		return Result{Allowed: false, RetryAfter: retryAfter}
	}
	return Result{Allowed: true}
}
