package realtime

import (
	"context"
	"errors"
	"log/slog"

	"github.com/sonetlabs/notifier/pkg/logger"
	"github.com/sonetlabs/notifier/pkg/repository"
)

// Gateway exposes the connection lifecycle hooks consumed by the transport
// layer. The transport owns socket upgrades and authentication; it calls
// these hooks with an already-validated user.
type Gateway struct {
	registry *Registry
	repo     repository.Repository
	log      *slog.Logger
}

// GatewayOption configures a Gateway.
type GatewayOption func(*Gateway)

// WithGatewayLogger sets the gateway logger.
func WithGatewayLogger(log *slog.Logger) GatewayOption {
	return func(g *Gateway) {
		if log != nil {
			g.log = log
		}
	}
}

// NewGateway creates a gateway over the registry and repository.
func NewGateway(registry *Registry, repo repository.Repository, opts ...GatewayOption) *Gateway {
	g := &Gateway{
		registry: registry,
		repo:     repo,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// OnConnect registers the session and greets it with a welcome envelope
// carrying the user's unread count. A failed welcome send is not fatal: the
// session stays registered and will receive subsequent pushes.
func (g *Gateway) OnConnect(ctx context.Context, sess Session, userID string, metadata map[string]string) error {
	g.registry.Add(sess, userID, metadata)

	unread, err := g.repo.UnreadCount(ctx, userID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		g.log.Warn("unread count lookup failed",
			logger.Component("gateway"),
			logger.UserID(userID),
			logger.Error(err))
		unread = 0
	}

	data, err := NewWelcomeEnvelope(unread, sess.ID()).Marshal()
	if err != nil {
		return err
	}
	if err := sess.Send(data); err != nil {
		g.log.Debug("welcome send failed",
			logger.Component("gateway"),
			logger.SessionID(sess.ID()),
			logger.Error(err))
	}
	return nil
}

// OnDisconnect removes the session on explicit client disconnect.
func (g *Gateway) OnDisconnect(sessionID string) {
	g.registry.Remove(sessionID)
}

// OnPing refreshes the session's liveness and answers with a pong envelope.
func (g *Gateway) OnPing(sess Session) {
	g.registry.Touch(sess.ID())

	if data, err := NewPongEnvelope().Marshal(); err == nil {
		_ = sess.Send(data) // best effort
	}
}
