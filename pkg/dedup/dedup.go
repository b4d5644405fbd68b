package dedup

import (
	"strings"
	"sync"
	"time"

	"github.com/sonetlabs/notifier/pkg/notification"
)

// DefaultWindow is used when the rule leaves the dedup window unset.
const DefaultWindow = 30 * time.Minute

// sweepEvery controls the opportunistic cleanup: every Nth IsDuplicate call
// sweeps expired entries, bounding memory without a background goroutine.
const sweepEvery = 64

// Cache suppresses re-delivery of semantically identical notifications
// within a TTL window. This is spam control, not a cryptographic guarantee:
// a missed duplicate after key eviction is acceptable, a false positive for
// distinct content is not.
type Cache struct {
	mu      sync.Mutex
	entries map[string]time.Time // key -> expiry
	calls   uint64

	now func() time.Time
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		if now != nil {
			c.now = now
		}
	}
}

// New creates a deduplication cache.
func New(opts ...Option) *Cache {
	c := &Cache{
		entries: make(map[string]time.Time),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Key derives the deterministic dedup key for a notification from its type,
// recipient, sender and primary content reference. Distinct content always
// produces distinct keys.
func Key(n *notification.Notification) string {
	var b strings.Builder
	b.WriteString(string(n.Type))
	b.WriteByte(':')
	b.WriteString(n.UserID)
	b.WriteByte(':')
	b.WriteString(n.SenderID)
	b.WriteByte(':')
	b.WriteString(n.PrimaryRef())
	return b.String()
}

// IsDuplicate reports whether an identical notification was seen within the
// window. When it was not, the notification is recorded with
// expiry = now + window (DefaultWindow if window is zero), so the first
// caller wins and all later identical calls are duplicates.
func (c *Cache) IsDuplicate(n *notification.Notification, window time.Duration) bool {
	if window <= 0 {
		window = DefaultWindow
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()

	c.calls++
	if c.calls%sweepEvery == 0 {
		c.sweep(now)
	}

	key := Key(n)
	if expiry, ok := c.entries[key]; ok {
		if now.Before(expiry) {
			return true
		}
		// Expired entry: evict and treat as new.
		delete(c.entries, key)
	}

	c.entries[key] = now.Add(window)
	return false
}

// Len returns the number of cached keys, including not-yet-swept expired ones.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Sweep evicts all expired entries immediately.
func (c *Cache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sweep(c.now())
}

// sweep removes expired entries. Caller must hold c.mu.
func (c *Cache) sweep(now time.Time) int {
	removed := 0
	for key, expiry := range c.entries {
		if !now.Before(expiry) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}
