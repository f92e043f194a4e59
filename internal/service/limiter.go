package service

import (
	"sync"
	"time"
)

// Limiter throttles guest token lookups, keyed by client address.  The
// booking core takes the limiter as a collaborator so deployments can
// swap implementations; the in-memory variant below is process-local
// and therefore a soft throttle only, not a security boundary and not
// authoritative across multiple server instances.  Multi-process
// deployments additionally put the Redis token-bucket middleware in
// front of the guest routes.
type Limiter interface {
	Allow(key string) bool
}

// SlidingWindowLimiter allows at most maxHits events per key within a
// rolling window.  Old hits are pruned lazily on access, and at most
// once per window a full sweep drops keys whose hits have all expired
// so idle clients do not accumulate in the map.
type SlidingWindowLimiter struct {
	mu        sync.Mutex
	window    time.Duration
	maxHits   int
	clock     Clock
	hits      map[string][]time.Time
	lastSweep time.Time
}

// NewSlidingWindowLimiter builds a limiter allowing maxHits per window.
func NewSlidingWindowLimiter(maxHits int, window time.Duration, clock Clock) *SlidingWindowLimiter {
	if clock == nil {
		clock = UTCClock{}
	}
	return &SlidingWindowLimiter{
		window:  window,
		maxHits: maxHits,
		clock:   clock,
		hits:    map[string][]time.Time{},
	}
}

// Allow records a hit for key and reports whether it fits the window.
func (l *SlidingWindowLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.clock.Now()
	cutoff := now.Add(-l.window)
	l.sweep(now, cutoff)
	kept := l.hits[key][:0]
	for _, t := range l.hits[key] {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	if len(kept) >= l.maxHits {
		l.hits[key] = kept
		return false
	}
	l.hits[key] = append(kept, now)
	return true
}

// sweep deletes keys whose recorded hits all fall before the cutoff.
// Runs at most once per window; callers hold the mutex.
func (l *SlidingWindowLimiter) sweep(now, cutoff time.Time) {
	if now.Sub(l.lastSweep) < l.window {
		return
	}
	l.lastSweep = now
	for key, ts := range l.hits {
		live := false
		for _, t := range ts {
			if t.After(cutoff) {
				live = true
				break
			}
		}
		if !live {
			delete(l.hits, key)
		}
	}
}
