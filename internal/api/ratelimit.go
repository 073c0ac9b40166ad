package api

import (
	"sync"
	"time"
)

// RequestCounter is an explicit per-client request counter with a
// sliding window. It is constructed per server and passed where needed
// rather than living as a process-wide singleton, so its lifetime and
// limits are owned by the caller that created it.
type RequestCounter struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	seen   map[string][]time.Time
	now    func() time.Time
}

// NewRequestCounter returns a counter allowing up to limit requests per
// client within the given window. A limit of 0 disables limiting.
func NewRequestCounter(limit int, window time.Duration) *RequestCounter {
	return &RequestCounter{
		limit:  limit,
		window: window,
		seen:   make(map[string][]time.Time),
		now:    time.Now,
	}
}

// Allow records a request for the client and reports whether it is
// within the limit.
func (rc *RequestCounter) Allow(clientID string) bool {
	if rc.limit <= 0 {
		return true
	}

	rc.mu.Lock()
	defer rc.mu.Unlock()

	now := rc.now()
	cutoff := now.Add(-rc.window)

	kept := rc.seen[clientID][:0]
	for _, t := range rc.seen[clientID] {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}

	if len(kept) >= rc.limit {
		rc.seen[clientID] = kept
		return false
	}

	rc.seen[clientID] = append(kept, now)
	return true
}

// ClientCount returns the number of clients currently tracked.
func (rc *RequestCounter) ClientCount() int {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return len(rc.seen)
}
