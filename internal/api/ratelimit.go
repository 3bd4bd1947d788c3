package api

import (
	"sync"
	"time"
)

// loginRateLimiter throttles login attempts per client IP with a fixed
// window. Entries are stored in a sync.Map so concurrent logins never
// contend on one lock.
type loginRateLimiter struct {
	limit   int
	window  time.Duration
	entries sync.Map // ip -> *rateEntry
}

type rateEntry struct {
	mu          sync.Mutex
	count       int
	windowStart time.Time
}

func newLoginRateLimiter(limit int, window time.Duration) *loginRateLimiter {
	return &loginRateLimiter{limit: limit, window: window}
}

// allow reports whether another attempt from ip is permitted. When denied it
// also returns the number of seconds until the window resets, for the
// Retry-After header.
func (rl *loginRateLimiter) allow(ip string) (bool, int) {
	now := time.Now()
	v, _ := rl.entries.LoadOrStore(ip, &rateEntry{windowStart: now})
	e := v.(*rateEntry)

	e.mu.Lock()
	defer e.mu.Unlock()

	if now.Sub(e.windowStart) >= rl.window {
		e.windowStart = now
		e.count = 0
	}
	if e.count >= rl.limit {
		retryAfter := int(rl.window.Seconds() - now.Sub(e.windowStart).Seconds())
		if retryAfter < 1 {
			retryAfter = 1
		}
		return false, retryAfter
	}
	e.count++
	return true, 0
}

// cleanup drops entries whose window has expired. Called periodically from
// the server loop so the map does not grow with every IP ever seen.
func (rl *loginRateLimiter) cleanup() {
	now := time.Now()
	rl.entries.Range(func(key, value interface{}) bool {
		e := value.(*rateEntry)
		e.mu.Lock()
		expired := now.Sub(e.windowStart) >= rl.window
		e.mu.Unlock()
		if expired {
			rl.entries.Delete(key)
		}
		return true
	})
}
