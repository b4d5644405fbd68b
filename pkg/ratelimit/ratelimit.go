package ratelimit

import (
	"sync"
	"time"

	"github.com/sonetlabs/notifier/pkg/notification"
	"github.com/sonetlabs/notifier/pkg/rules"
)

// userState tracks one user's windowed counters. Counters reset lazily on
// the first check after a window boundary, there is no reset timer.
type userState struct {
	hourly         map[notification.Type]int
	daily          map[notification.Type]int
	hourReset      time.Time
	dayReset       time.Time
	throttledUntil time.Time
	lastAccess     time.Time
}

// Limiter enforces per-user, per-type hourly and daily caps plus an explicit
// throttle. A single mutex guards the whole table: critical sections are
// O(1) and contention is bounded by the worker pool, not request volume.
type Limiter struct {
	mu    sync.Mutex
	users map[string]*userState

	now func() time.Time // injectable for tests
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) {
		if now != nil {
			l.now = now
		}
	}
}

// New creates a rate limiter.
func New(opts ...Option) *Limiter {
	l := &Limiter{
		users: make(map[string]*userState),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Allow decides whether one more notification of the given type may be
// delivered to the user, incrementing the counters when it may. Rejection is
// a policy decision, not an error.
func (l *Limiter) Allow(userID string, typ notification.Type, rule rules.Rule, hasRule bool) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	st := l.user(userID, now)
	st.lastAccess = now

	// Lazy window reset.
	if !now.Before(st.hourReset) {
		st.hourly = make(map[notification.Type]int)
		st.hourReset = now.Add(time.Hour)
	}
	if !now.Before(st.dayReset) {
		st.daily = make(map[notification.Type]int)
		st.dayReset = now.Add(24 * time.Hour)
	}

	// An active throttle rejects everything regardless of per-type caps.
	if now.Before(st.throttledUntil) {
		return false
	}

	if !hasRule || !rule.RateLimit {
		return true
	}

	if st.hourly[typ] >= rule.MaxPerHour {
		return false
	}
	if st.daily[typ] >= rule.MaxPerDay {
		return false
	}

	st.hourly[typ]++
	st.daily[typ]++
	return true
}

// Throttle suppresses all notifications for the user for the given duration.
func (l *Limiter) Throttle(userID string, d time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	st := l.user(userID, now)
	st.throttledUntil = now.Add(d)
	st.lastAccess = now
}

// Unthrottle lifts an active throttle.
func (l *Limiter) Unthrottle(userID string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if st, ok := l.users[userID]; ok {
		st.throttledUntil = time.Time{}
	}
}

// Throttled reports whether the user is currently throttled.
func (l *Limiter) Throttled(userID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	st, ok := l.users[userID]
	return ok && l.now().Before(st.throttledUntil)
}

// Reset drops all counters and throttle state for the user.
func (l *Limiter) Reset(userID string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.users, userID)
}

// CleanupStale evicts users whose state has not been touched within maxIdle.
// Called by the health sweep to bound memory on long-running processes.
func (l *Limiter) CleanupStale(maxIdle time.Duration) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-maxIdle)
	removed := 0
	for userID, st := range l.users {
		if st.lastAccess.Before(cutoff) && !l.now().Before(st.throttledUntil) {
			delete(l.users, userID)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked users.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.users)
}

// user returns the state for userID, creating it on first use.
// Caller must hold l.mu.
func (l *Limiter) user(userID string, now time.Time) *userState {
	st, ok := l.users[userID]
	if !ok {
		st = &userState{
			hourly:    make(map[notification.Type]int),
			daily:     make(map[notification.Type]int),
			hourReset: now.Add(time.Hour),
			dayReset:  now.Add(24 * time.Hour),
		}
		l.users[userID] = st
	}
	return st
}
