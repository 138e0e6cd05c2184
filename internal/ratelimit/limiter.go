// Package ratelimit bounds how many requests a single client may make in a window.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter is a per-key sliding-window limiter: a key may make at most limit
// requests in any window-long interval.
type Limiter struct {
	mu       sync.Mutex
	requests map[string][]time.Time
	limit    int
	window   time.Duration
	now      func() time.Time
}

// New creates a limiter allowing limit requests per window for each key.
func New(limit int, window time.Duration) *Limiter {
	return &Limiter{
		requests: make(map[string][]time.Time),
		limit:    limit,
		window:   window,
		now:      time.Now,
	}
}

// Allow records a request for key and reports whether it is within the limit.
// Rejected requests are not recorded.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	valid := l.prune(key, now)

	if len(valid) >= l.limit {
		return false
	}

	l.requests[key] = append(valid, now)
	return true
}

// RetryAfter returns how long key must wait before its next request is allowed.
func (l *Limiter) RetryAfter(key string) time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	valid := l.prune(key, now)
	if len(valid) < l.limit {
		return 0
	}

	// valid is in arrival order; the oldest entry leaves the window first.
	delay := valid[len(valid)-l.limit].Add(l.window).Sub(now)
	if delay < 0 {
		return 0
	}
	return delay
}

// Count returns the number of requests key made in the current window.
func (l *Limiter) Count(key string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.prune(key, l.now()))
}

// Cleanup drops keys with no requests left in the window.
func (l *Limiter) Cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for key := range l.requests {
		l.prune(key, now)
	}
}

// Run calls Cleanup every interval until ctx is done.
func (l *Limiter) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Cleanup()
		}
	}
}

// prune drops timestamps outside the window ending at now and returns the rest.
// l.mu must be held.
func (l *Limiter) prune(key string, now time.Time) []time.Time {
	requests := l.requests[key]
	windowStart := now.Add(-l.window)

	i := 0
	for i < len(requests) && !requests[i].After(windowStart) {
		i++
	}
	valid := requests[i:]

	if len(valid) == 0 {
		delete(l.requests, key)
		return nil
	}
	l.requests[key] = valid
	return valid
}
