package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/sonetlabs/notifier/pkg/logger"
)

// DefaultBridgeChannel is the shared pub/sub channel for cross-instance
// realtime fan-out.
const DefaultBridgeChannel = "notifier:realtime"

// bridgeEnvelope wraps a user-targeted realtime envelope so every instance
// can replay it into its local registry. Origin lets an instance skip its
// own messages, which were already delivered locally.
type bridgeEnvelope struct {
	Origin   string          `json:"origin"`
	UserID   string          `json:"user_id"`
	Envelope json.RawMessage `json:"envelope"`
	SentAt   time.Time       `json:"sent_at"`
}

// Bridge connects the process-local registry to a Redis pub/sub channel so a
// notification produced on any instance reaches users connected elsewhere.
// Without a bridge the registry still works in single-instance mode.
type Bridge struct {
	id       string
	client   *redis.Client
	registry *Registry
	channel  string
	log      *slog.Logger

	cancel context.CancelFunc
	done   chan struct{}
}

// BridgeOption configures a Bridge.
type BridgeOption func(*Bridge)

// WithBridgeChannel overrides the pub/sub channel name.
func WithBridgeChannel(name string) BridgeOption {
	return func(b *Bridge) {
		if name != "" {
			b.channel = name
		}
	}
}

// WithBridgeLogger sets the bridge logger.
func WithBridgeLogger(log *slog.Logger) BridgeOption {
	return func(b *Bridge) {
		if log != nil {
			b.log = log
		}
	}
}

// NewBridge creates a bridge between the registry and Redis.
func NewBridge(client *redis.Client, registry *Registry, opts ...BridgeOption) *Bridge {
	b := &Bridge{
		id:       uuid.New().String(),
		client:   client,
		registry: registry,
		channel:  DefaultBridgeChannel,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Start launches the background subscriber that replays remote envelopes
// into the local registry.
func (b *Bridge) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	b.cancel = cancel
	b.done = make(chan struct{})

	go b.run(ctx)

	b.log.Info("realtime bridge started",
		logger.Component("bridge"),
		slog.String("channel", b.channel))
}

// Stop shuts the subscriber down and waits for it to exit.
func (b *Bridge) Stop() {
	if b.cancel == nil {
		return
	}
	b.cancel()
	<-b.done
}

// Publish fans an already-marshaled envelope out through Redis so instances
// holding the user's other sessions can deliver it.
func (b *Bridge) Publish(ctx context.Context, userID string, envelope []byte) error {
	body, err := json.Marshal(bridgeEnvelope{
		Origin:   b.id,
		UserID:   userID,
		Envelope: envelope,
		SentAt:   time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	return b.client.Publish(ctx, b.channel, body).Err()
}

func (b *Bridge) run(ctx context.Context) {
	defer close(b.done)

	pubsub := b.client.Subscribe(ctx, b.channel)
	defer pubsub.Close()

	// Wait for the subscription before consuming.
	if _, err := pubsub.Receive(ctx); err != nil {
		b.log.Error("bridge subscribe failed",
			logger.Component("bridge"),
			logger.Error(err))
		return
	}

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var env bridgeEnvelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				b.log.Warn("bridge decode failed",
					logger.Component("bridge"),
					logger.Error(err))
				continue
			}
			if env.Origin == b.id || env.UserID == "" || len(env.Envelope) == 0 {
				continue
			}
			b.registry.SendToUser(env.UserID, env.Envelope)
		}
	}
}
