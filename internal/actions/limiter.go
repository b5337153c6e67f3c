package actions

import (
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const limiterIdleTTL = 30 * time.Minute

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// LoginLimiter throttles sign in attempts per e-mail address.
// A nil *LoginLimiter allows everything.
type LoginLimiter struct {
	mu      sync.Mutex
	limit   rate.Limit
	burst   int
	entries map[string]*limiterEntry
	now     func() time.Time
}

// NewLoginLimiter allows perMinute attempts with the given burst. A
// perMinute of zero disables throttling and returns nil.
func NewLoginLimiter(perMinute, burst int) *LoginLimiter {
	if perMinute <= 0 {
		return nil
	}

	if burst <= 0 {
		burst = 1
	}

	return &LoginLimiter{
		limit:   rate.Every(time.Minute / time.Duration(perMinute)),
		burst:   burst,
		entries: make(map[string]*limiterEntry),
		now:     time.Now,
	}
}

// Allow reports whether another attempt for email may proceed.
func (l *LoginLimiter) Allow(email string) bool {
	if l == nil {
		return true
	}

	key := strings.ToLower(strings.TrimSpace(email))
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	l.sweep(now)

	e, ok := l.entries[key]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.entries[key] = e
	}

	e.lastSeen = now

	return e.limiter.AllowN(now, 1)
}

// sweep drops limiters idle for limiterIdleTTL. Caller holds mu.
func (l *LoginLimiter) sweep(now time.Time) {
	for k, e := range l.entries {
		if now.Sub(e.lastSeen) > limiterIdleTTL {
			delete(l.entries, k)
		}
	}
}
