package batch

import (
	"sync"
	"time"

	"github.com/sonetlabs/notifier/pkg/notification"
	"github.com/sonetlabs/notifier/pkg/rules"
)

// Manager groups compatible notifications for a user within a time window
// into a single delivery unit. Open batches are keyed by (user, type); the
// size cap takes priority over the window, so a full batch never waits for
// the window to elapse.
type Manager struct {
	mu   sync.Mutex
	open map[batchKey]*notification.Batch

	created uint64 // batches opened since start

	now func() time.Time
}

type batchKey struct {
	userID string
	typ    notification.Type
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// NewManager creates a batch manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		open: make(map[batchKey]*notification.Batch),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Put adds a batch-eligible notification to the user's open batch, creating
// one when absent. When the add fills the batch to the rule's cap, the full
// batch is detached and returned for immediate flush; the next eligible
// notification will open a fresh batch.
func (m *Manager) Put(n notification.Notification, rule rules.Rule) (*notification.Batch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := batchKey{userID: n.UserID, typ: n.Type}
	b, ok := m.open[key]
	if !ok {
		b = notification.NewBatch(n.UserID, n.Type, rule.BatchWindow, m.now())
		m.open[key] = b
		m.created++
	}

	if err := b.Add(n); err != nil {
		return nil, err
	}

	if b.Full(rule.MaxBatch) {
		delete(m.open, key)
		return b, nil
	}

	return nil, nil
}

// FlushReady detaches and returns every open batch whose window deadline has
// passed. Called by the processor's batch sweep.
func (m *Manager) FlushReady() []*notification.Batch {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	var ready []*notification.Batch
	for key, b := range m.open {
		if b.Ready(now) {
			delete(m.open, key)
			ready = append(ready, b)
		}
	}
	return ready
}

// FlushUser detaches and returns all open batches for the user regardless of
// their deadlines.
func (m *Manager) FlushUser(userID string) []*notification.Batch {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*notification.Batch
	for key, b := range m.open {
		if key.userID == userID {
			delete(m.open, key)
			out = append(out, b)
		}
	}
	return out
}

// FlushAll detaches and returns every open batch. Used on shutdown so queued
// members are not lost in memory.
func (m *Manager) FlushAll() []*notification.Batch {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*notification.Batch, 0, len(m.open))
	for key, b := range m.open {
		delete(m.open, key)
		out = append(out, b)
	}
	return out
}

// OpenBatches returns the number of batches currently accumulating.
func (m *Manager) OpenBatches() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.open)
}

// Created returns the total number of batches opened since start.
func (m *Manager) Created() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.created
}
