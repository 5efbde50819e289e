package ingest

import (
	"sync"
	"time"
)

// RateLimiter caps republishing to one emission per interval. A single
// owned timestamp cell: the elapsed check and the state update happen in one
// critical section, so two concurrent messages cannot both win the same
// window. Denied emissions are dropped, never deferred.
type RateLimiter struct {
	mu       sync.Mutex
	interval time.Duration
	last     time.Time
}

func NewRateLimiter(interval time.Duration) *RateLimiter {
	if interval <= 0 {
		interval = time.Second
	}
	return &RateLimiter{interval: interval}
}

// TryEmit grants permission iff at least one interval has passed since the
// last granted emission (or none has ever happened). A grant records now as
// the last emission.
func (l *RateLimiter) TryEmit(now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.last.IsZero() && now.Sub(l.last) < l.interval {
		return false
	}
	l.last = now
	return true
}
