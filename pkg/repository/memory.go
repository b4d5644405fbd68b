package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/sonetlabs/notifier/pkg/notification"
)

// Memory is an in-memory Repository implementation for development and
// tests. Not meant for production: data is lost on restart.
type Memory struct {
	mu            sync.RWMutex
	notifications map[string]notification.Notification // id -> notification
	byUser        map[string][]string                  // userID -> ids, insertion order
	preferences   map[string]notification.Preferences
}

// NewMemory creates an empty in-memory repository.
func NewMemory() *Memory {
	return &Memory{
		notifications: make(map[string]notification.Notification),
		byUser:        make(map[string][]string),
		preferences:   make(map[string]notification.Preferences),
	}
}

func (m *Memory) Create(ctx context.Context, n notification.Notification) error {
	if err := n.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.notifications[n.ID]; exists {
		return ErrAlreadyExists
	}

	m.notifications[n.ID] = n
	m.byUser[n.UserID] = append(m.byUser[n.UserID], n.ID)
	return nil
}

func (m *Memory) Get(ctx context.Context, id string) (*notification.Notification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n, ok := m.notifications[id]
	if !ok {
		return nil, ErrNotFound
	}
	// Copy so callers cannot mutate stored data.
	out := n
	return &out, nil
}

func (m *Memory) UpdateStatus(ctx context.Context, id string, status notification.Status, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	n, ok := m.notifications[id]
	if !ok {
		return ErrNotFound
	}

	switch status {
	case notification.StatusSent:
		n.MarkSent()
	case notification.StatusDelivered:
		n.MarkDelivered()
	case notification.StatusRead:
		n.MarkRead()
	case notification.StatusFailed:
		n.MarkFailed(reason)
	default:
		n.Status = status
	}

	m.notifications[id] = n
	return nil
}

func (m *Memory) GetPending(ctx context.Context, limit int) ([]notification.Notification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []notification.Notification
	for _, n := range m.notifications {
		if n.Status == notification.StatusPending {
			out = append(out, n)
			if limit > 0 && len(out) >= limit {
				break
			}
		}
	}
	return out, nil
}

func (m *Memory) GetScheduled(ctx context.Context, before time.Time, limit int) ([]notification.Notification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []notification.Notification
	for _, n := range m.notifications {
		if n.Status == notification.StatusPending && n.ScheduledAt.Before(before) {
			out = append(out, n)
			if limit > 0 && len(out) >= limit {
				break
			}
		}
	}
	return out, nil
}

func (m *Memory) ListUserNotifications(ctx context.Context, userID string, limit, offset int) ([]notification.Notification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := m.byUser[userID]
	out := make([]notification.Notification, 0, len(ids))
	for _, id := range ids {
		if n, ok := m.notifications[id]; ok {
			out = append(out, n)
		}
	}

	// Newest first.
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if offset >= len(out) {
		return []notification.Notification{}, nil
	}
	out = out[offset:]
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *Memory) UnreadCount(ctx context.Context, userID string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, id := range m.byUser[userID] {
		if n, ok := m.notifications[id]; ok && n.ReadAt == nil && n.Status != notification.StatusCancelled {
			count++
		}
	}
	return count, nil
}

func (m *Memory) GetPreferences(ctx context.Context, userID string) (*notification.Preferences, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.preferences[userID]
	if !ok {
		return nil, ErrPreferencesNotFound
	}
	out := p
	return &out, nil
}

// SavePreferences stores a user's preferences. Used by tests and dev setups;
// the production preferences surface is owned by the storage service.
func (m *Memory) SavePreferences(ctx context.Context, p notification.Preferences) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.preferences[p.UserID] = p
	return nil
}

func (m *Memory) CleanupExpired(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, n := range m.notifications {
		if n.IsExpired() {
			delete(m.notifications, id)
			ids := m.byUser[n.UserID]
			for i, uid := range ids {
				if uid == id {
					m.byUser[n.UserID] = append(ids[:i], ids[i+1:]...)
					break
				}
			}
			removed++
		}
	}
	return removed, nil
}

// Len returns the number of stored notifications.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.notifications)
}
