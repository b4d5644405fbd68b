package channel

import (
	"context"
	"errors"
	"log/slog"

	"github.com/sonetlabs/notifier/pkg/notification"
	"github.com/sonetlabs/notifier/pkg/rules"
)

// Dispatcher fans one notification out across its eligible channels.
// The eligible set is the intersection of the notification's requested
// channels, the channels the type's rule allows, and the channels the
// user's preferences enable.
type Dispatcher struct {
	channels []Channel
	rules    *rules.Set
	log      *slog.Logger
}

// DispatcherOption configures the dispatcher.
type DispatcherOption func(*Dispatcher)

// WithDispatcherLogger sets the logger for delivery diagnostics.
func WithDispatcherLogger(log *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) { d.log = log }
}

// NewDispatcher creates a dispatcher over the given channels, tried in
// order. Channels is typically realtime first, then push, then email.
func NewDispatcher(ruleSet *rules.Set, channels []Channel, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		channels: channels,
		rules:    ruleSet,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Eligible returns the channel bitset a notification may be delivered on.
func (d *Dispatcher) Eligible(n notification.Notification, prefs notification.Preferences) notification.Channel {
	allowed := n.Channels
	if d.rules != nil {
		if rule, ok := d.rules.Get(n.Type); ok && rule.AllowedChannels != 0 {
			allowed &= rule.AllowedChannels
		}
	}
	allowed &= prefs.EnabledChannels(n.Type)
	return allowed
}

// Dispatch delivers the notification on every eligible channel and reports
// whether at least one channel succeeded. The skip conditions a channel
// reports for itself, an offline user on realtime or a priority below the
// email threshold, are not counted as failures.
func (d *Dispatcher) Dispatch(ctx context.Context, n notification.Notification, prefs notification.Preferences) bool {
	eligible := d.Eligible(n, prefs)
	if eligible == 0 {
		d.log.DebugContext(ctx, "no eligible channels",
			slog.String("notification_id", n.ID),
			slog.String("type", string(n.Type)),
		)
		return false
	}

	delivered := false
	for _, ch := range d.channels {
		if !eligible.Has(ch.Bit()) {
			continue
		}

		err := ch.Deliver(ctx, n, prefs)
		switch {
		case err == nil:
			delivered = true
		case errors.Is(err, ErrUserOffline), errors.Is(err, ErrPriorityTooLow):
			d.log.DebugContext(ctx, "channel skipped",
				slog.String("channel", ch.Name()),
				slog.String("notification_id", n.ID),
				slog.Any("reason", err),
			)
		default:
			d.log.ErrorContext(ctx, "channel delivery failed",
				slog.String("channel", ch.Name()),
				slog.String("notification_id", n.ID),
				slog.String("user_id", n.UserID),
				slog.Any("error", err),
			)
		}
	}

	return delivered
}

// DispatchBatch aggregates the batch into a single summary notification
// and dispatches it once.
func (d *Dispatcher) DispatchBatch(ctx context.Context, b *notification.Batch, prefs notification.Preferences) bool {
	if b == nil || b.Size() == 0 {
		return false
	}
	return d.Dispatch(ctx, b.Aggregate(), prefs)
}
