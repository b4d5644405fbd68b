package channel

import (
	"context"
	"log/slog"

	"github.com/sonetlabs/notifier/pkg/notification"
	"github.com/sonetlabs/notifier/pkg/realtime"
)

// Realtime delivers notifications over live sessions registered in a
// realtime.Registry. When a Bridge is configured the envelope is also
// published so sessions held by other instances receive it.
type Realtime struct {
	registry *realtime.Registry
	bridge   *realtime.Bridge
	log      *slog.Logger
}

// RealtimeOption configures the realtime channel.
type RealtimeOption func(*Realtime)

// WithBridge attaches a cross-instance bridge. Publish failures are logged
// and do not fail the local delivery.
func WithBridge(b *realtime.Bridge) RealtimeOption {
	return func(c *Realtime) { c.bridge = b }
}

// WithRealtimeLogger sets the logger for delivery diagnostics.
func WithRealtimeLogger(log *slog.Logger) RealtimeOption {
	return func(c *Realtime) { c.log = log }
}

// NewRealtime creates a realtime delivery channel backed by the given
// session registry.
func NewRealtime(registry *realtime.Registry, opts ...RealtimeOption) *Realtime {
	c := &Realtime{
		registry: registry,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Realtime) Name() string { return "realtime" }

func (c *Realtime) Bit() notification.Channel { return notification.ChannelRealtime }

// Deliver marshals the notification envelope and fans it out to every live
// session of the target user. Returns ErrUserOffline when no local session
// accepted the payload and no bridge is configured.
func (c *Realtime) Deliver(ctx context.Context, n notification.Notification, _ notification.Preferences) error {
	env := realtime.NewNotificationEnvelope(n)
	payload, err := env.Marshal()
	if err != nil {
		return err
	}

	delivered := c.registry.SendToUser(n.UserID, payload)

	if c.bridge != nil {
		if err := c.bridge.Publish(ctx, n.UserID, payload); err != nil {
			c.log.WarnContext(ctx, "realtime bridge publish failed",
				slog.String("user_id", n.UserID),
				slog.Any("error", err),
			)
		} else {
			// Another instance may hold the user's session.
			delivered = true
		}
	}

	if !delivered {
		return ErrUserOffline
	}
	return nil
}
