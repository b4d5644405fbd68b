package channel

import (
	"context"

	"github.com/sonetlabs/notifier/pkg/notification"
)

// Channel is one delivery mechanism. Implementations must be safe for
// concurrent use by the worker pool; a delivery failure is an error the
// dispatcher records, never a panic.
type Channel interface {
	// Name returns the canonical channel name for logs and stats.
	Name() string

	// Bit returns the channel's position in the notification channel bitset.
	Bit() notification.Channel

	// Deliver attempts to deliver the notification to its target user given
	// the user's resolved preferences.
	Deliver(ctx context.Context, n notification.Notification, prefs notification.Preferences) error
}
