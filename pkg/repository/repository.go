package repository

import (
	"context"
	"time"

	"github.com/sonetlabs/notifier/pkg/notification"
)

// Repository is the persistent storage collaborator for notifications and
// delivery preferences. The delivery core only consumes this interface;
// production implementations live with the storage service. All methods are
// context-first and safe for concurrent use by the worker pool.
type Repository interface {
	// Create persists a new notification.
	Create(ctx context.Context, n notification.Notification) error

	// Get retrieves a notification by id.
	Get(ctx context.Context, id string) (*notification.Notification, error)

	// UpdateStatus records a delivery status transition. The reason is kept
	// only for failed transitions.
	UpdateStatus(ctx context.Context, id string, status notification.Status, reason string) error

	// GetPending returns up to limit notifications still awaiting delivery.
	GetPending(ctx context.Context, limit int) ([]notification.Notification, error)

	// GetScheduled returns up to limit notifications scheduled before the
	// given time.
	GetScheduled(ctx context.Context, before time.Time, limit int) ([]notification.Notification, error)

	// ListUserNotifications returns a page of the user's notifications,
	// newest first.
	ListUserNotifications(ctx context.Context, userID string, limit, offset int) ([]notification.Notification, error)

	// UnreadCount returns the user's unread notification count.
	UnreadCount(ctx context.Context, userID string) (int, error)

	// GetPreferences returns the user's delivery preferences, or
	// ErrPreferencesNotFound when none are stored.
	GetPreferences(ctx context.Context, userID string) (*notification.Preferences, error)

	// CleanupExpired removes expired notifications and returns the number
	// removed.
	CleanupExpired(ctx context.Context) (int, error)
}
