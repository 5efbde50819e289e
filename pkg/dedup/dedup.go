package dedup

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"
)

// Guard drops payloads already seen within the TTL window. Used in front of
// the pipeline on QoS 1 subscriptions, where broker redelivery would
// otherwise double-persist a reading.
type Guard struct {
	mu      sync.Mutex
	ttl     time.Duration
	maxSize int
	seen    map[string]time.Time
}

func New(ttl time.Duration, maxSize int) *Guard {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if maxSize <= 0 {
		maxSize = 10000
	}
	return &Guard{ttl: ttl, maxSize: maxSize, seen: make(map[string]time.Time, maxSize)}
}

// Hash returns the dedup key for a raw payload.
func Hash(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

// ShouldProcess records key and reports whether it is new within the TTL.
func (g *Guard) ShouldProcess(key string) bool {
	if key == "" {
		return true
	}
	now := time.Now()
	g.mu.Lock()
	defer g.mu.Unlock()

	if exp, ok := g.seen[key]; ok && now.Before(exp) {
		return false
	}
	g.seen[key] = now.Add(g.ttl)

	if len(g.seen) > g.maxSize {
		g.sweep(now)
	}
	return true
}

// sweep evicts expired entries; caller holds the lock.
func (g *Guard) sweep(now time.Time) {
	for k, exp := range g.seen {
		if now.After(exp) {
			delete(g.seen, k)
		}
		if len(g.seen) <= g.maxSize {
			return
		}
	}
}
