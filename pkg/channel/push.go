package channel

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sonetlabs/notifier/pkg/async"
	"github.com/sonetlabs/notifier/pkg/notification"
)

// PushProvider submits a push notification to the platform provider and
// resolves the returned future once the provider acknowledges or rejects it.
type PushProvider interface {
	SendPush(ctx context.Context, n notification.Notification) *async.Future[bool]
}

// DefaultPushTimeout bounds how long a delivery waits on the provider
// acknowledgement before the attempt is considered failed.
const DefaultPushTimeout = 5 * time.Second

// Push delivers notifications through a mobile push provider.
type Push struct {
	provider PushProvider
	timeout  time.Duration
	log      *slog.Logger
}

// PushOption configures the push channel.
type PushOption func(*Push)

// WithPushTimeout overrides the provider acknowledgement timeout.
// Panics if timeout is not positive.
func WithPushTimeout(timeout time.Duration) PushOption {
	if timeout <= 0 {
		panic("channel: push timeout must be positive")
	}
	return func(c *Push) { c.timeout = timeout }
}

// WithPushLogger sets the logger for delivery diagnostics.
func WithPushLogger(log *slog.Logger) PushOption {
	return func(c *Push) { c.log = log }
}

// NewPush creates a push delivery channel.
func NewPush(provider PushProvider, opts ...PushOption) (*Push, error) {
	if provider == nil {
		return nil, ErrMissingProvider
	}
	c := &Push{
		provider: provider,
		timeout:  DefaultPushTimeout,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Push) Name() string { return "push" }

func (c *Push) Bit() notification.Channel { return notification.ChannelPush }

// Deliver submits the notification to the provider and waits for the
// acknowledgement up to the configured timeout.
func (c *Push) Deliver(ctx context.Context, n notification.Notification, _ notification.Preferences) error {
	fut := c.provider.SendPush(ctx, n)

	ok, err := fut.AwaitWithTimeout(c.timeout)
	if err != nil {
		if errors.Is(err, async.ErrTimeout) {
			c.log.WarnContext(ctx, "push provider acknowledgement timed out",
				slog.String("notification_id", n.ID),
				slog.String("user_id", n.UserID),
			)
		}
		return errors.Join(ErrSendFailed, err)
	}
	if !ok {
		return ErrSendFailed
	}
	return nil
}
