package realtime

import (
	"encoding/json"
	"time"

	"github.com/sonetlabs/notifier/pkg/notification"
)

// Envelope is the wire-level payload pushed over a realtime session.
type Envelope struct {
	Type      string `json:"type"`
	Data      any    `json:"data"`
	Timestamp int64  `json:"timestamp"` // epoch milliseconds
}

// EnvelopeType values.
const (
	EnvelopeNotification = "notification"
	EnvelopeWelcome      = "welcome"
	EnvelopePong         = "pong"
)

// NewNotificationEnvelope wraps a notification for realtime delivery.
func NewNotificationEnvelope(n notification.Notification) Envelope {
	return Envelope{
		Type:      EnvelopeNotification,
		Data:      n,
		Timestamp: time.Now().UnixMilli(),
	}
}

// WelcomeData is sent once per new connection.
type WelcomeData struct {
	UnreadCount int    `json:"unread_count"`
	SessionID   string `json:"session_id"`
}

// NewWelcomeEnvelope builds the greeting sent after a session registers.
func NewWelcomeEnvelope(unreadCount int, sessionID string) Envelope {
	return Envelope{
		Type:      EnvelopeWelcome,
		Data:      WelcomeData{UnreadCount: unreadCount, SessionID: sessionID},
		Timestamp: time.Now().UnixMilli(),
	}
}

// NewPongEnvelope answers an inbound client ping.
func NewPongEnvelope() Envelope {
	return Envelope{
		Type:      EnvelopePong,
		Timestamp: time.Now().UnixMilli(),
	}
}

// Marshal encodes the envelope for the wire.
func (e Envelope) Marshal() ([]byte, error) {
	return json.Marshal(e)
}
