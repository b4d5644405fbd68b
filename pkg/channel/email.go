package channel

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/time/rate"

	"github.com/sonetlabs/notifier/pkg/notification"
)

// EmailSender sends a single email through the configured provider.
type EmailSender interface {
	SendEmail(ctx context.Context, params SendEmailParams) error
}

// SendEmailParams carries everything the provider needs for one message.
type SendEmailParams struct {
	To       string
	Subject  string
	BodyHTML string
	Tag      string
}

// AddressResolver maps a user ID to the address email deliveries go to.
type AddressResolver interface {
	EmailAddress(ctx context.Context, userID string) (string, error)
}

// AddressResolverFunc adapts a function to the AddressResolver interface.
type AddressResolverFunc func(ctx context.Context, userID string) (string, error)

func (f AddressResolverFunc) EmailAddress(ctx context.Context, userID string) (string, error) {
	return f(ctx, userID)
}

// DefaultEmailBurst is the provider call budget burst size.
const DefaultEmailBurst = 10

// Email delivers notifications by email. Only high and urgent priority
// notifications are sent; everything below the threshold is skipped so the
// inbox carries signal rather than feed noise. Provider calls are metered
// by a token bucket so a burst of urgent notifications cannot exhaust the
// provider's API quota.
type Email struct {
	sender    EmailSender
	resolver  AddressResolver
	budget    *rate.Limiter
	threshold notification.Priority
	log       *slog.Logger
}

// EmailOption configures the email channel.
type EmailOption func(*Email)

// WithEmailBudget sets the provider call budget in calls per second.
// Panics if perSecond is not positive.
func WithEmailBudget(perSecond float64) EmailOption {
	if perSecond <= 0 {
		panic("channel: email budget must be positive")
	}
	return func(c *Email) { c.budget = rate.NewLimiter(rate.Limit(perSecond), DefaultEmailBurst) }
}

// WithEmailThreshold overrides the minimum priority an email is sent for.
func WithEmailThreshold(p notification.Priority) EmailOption {
	return func(c *Email) { c.threshold = p }
}

// WithEmailLogger sets the logger for delivery diagnostics.
func WithEmailLogger(log *slog.Logger) EmailOption {
	return func(c *Email) { c.log = log }
}

// NewEmail creates an email delivery channel.
func NewEmail(sender EmailSender, resolver AddressResolver, opts ...EmailOption) (*Email, error) {
	if sender == nil || resolver == nil {
		return nil, ErrMissingProvider
	}
	c := &Email{
		sender:    sender,
		resolver:  resolver,
		budget:    rate.NewLimiter(rate.Limit(5), DefaultEmailBurst),
		threshold: notification.PriorityHigh,
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Email) Name() string { return "email" }

func (c *Email) Bit() notification.Channel { return notification.ChannelEmail }

// Deliver sends the notification by email when it meets the priority
// threshold and the provider budget has a token available. A budget miss
// sheds the delivery instead of blocking the worker.
func (c *Email) Deliver(ctx context.Context, n notification.Notification, _ notification.Preferences) error {
	if n.Priority < c.threshold {
		return ErrPriorityTooLow
	}
	if !c.budget.Allow() {
		c.log.WarnContext(ctx, "email delivery shed",
			slog.String("notification_id", n.ID),
			slog.String("user_id", n.UserID),
		)
		return ErrProviderBudget
	}

	addr, err := c.resolver.EmailAddress(ctx, n.UserID)
	if err != nil {
		return fmt.Errorf("resolve email address: %w", err)
	}
	if addr == "" {
		return ErrMissingRecipient
	}

	return c.sender.SendEmail(ctx, SendEmailParams{
		To:       addr,
		Subject:  n.Title,
		BodyHTML: renderEmailBody(n),
		Tag:      string(n.Type),
	})
}

func renderEmailBody(n notification.Notification) string {
	return fmt.Sprintf("<p>%s</p>", n.Message)
}
