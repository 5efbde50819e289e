package ingest

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiterFirstEmissionAlwaysGranted(t *testing.T) {
	t.Parallel()

	l := NewRateLimiter(time.Second)
	assert.True(t, l.TryEmit(time.Now()))
}

func TestRateLimiterWithinInterval(t *testing.T) {
	t.Parallel()

	l := NewRateLimiter(time.Second)
	now := time.Now()

	assert.True(t, l.TryEmit(now))
	assert.False(t, l.TryEmit(now.Add(500*time.Millisecond)))
	assert.False(t, l.TryEmit(now.Add(999*time.Millisecond)))
}

func TestRateLimiterAfterInterval(t *testing.T) {
	t.Parallel()

	l := NewRateLimiter(time.Second)
	now := time.Now()

	assert.True(t, l.TryEmit(now))
	assert.True(t, l.TryEmit(now.Add(time.Second)))
	assert.True(t, l.TryEmit(now.Add(2500*time.Millisecond)))
}

func TestRateLimiterDeniedEmissionDoesNotResetWindow(t *testing.T) {
	t.Parallel()

	l := NewRateLimiter(time.Second)
	now := time.Now()

	assert.True(t, l.TryEmit(now))
	assert.False(t, l.TryEmit(now.Add(900*time.Millisecond)))
	// window still measured from the granted emission
	assert.True(t, l.TryEmit(now.Add(1100*time.Millisecond)))
}

func TestRateLimiterConcurrentSingleWinner(t *testing.T) {
	t.Parallel()

	l := NewRateLimiter(time.Minute)
	now := time.Now()

	var granted int64
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.TryEmit(now) {
				atomic.AddInt64(&granted, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), granted)
}
