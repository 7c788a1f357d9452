package jwks

import (
	"sync"
	"time"
)

// rateLimiter bounds fetch attempts with a sliding window: an attempt
// is admitted only if fewer than limit attempts were admitted within
// the trailing window. Rejected attempts cost nothing, so a burst of
// unresolvable kids cannot push recovery further out.
//
// Token-bucket limiters (golang.org/x/time/rate) refill continuously
// and would admit fetches earlier than the trailing-window contract
// allows, so the window is counted directly.
type rateLimiter struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	stamps []time.Time
	now    func() time.Time
}

func newRateLimiter(limit int, window time.Duration) *rateLimiter {
	return &rateLimiter{
		limit:  limit,
		window: window,
		now:    time.Now,
	}
}

// allow records and admits the attempt if the window has budget.
// Safe for concurrent use.
func (r *rateLimiter) allow() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	cutoff := now.Add(-r.window)

	// Drop stamps that fell out of the trailing window.
	kept := r.stamps[:0]
	for _, ts := range r.stamps {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	r.stamps = kept

	if len(r.stamps) >= r.limit {
		return false
	}

	r.stamps = append(r.stamps, now)
	return true
}
