package realtime_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sonetlabs/notifier/pkg/notification"
	"github.com/sonetlabs/notifier/pkg/realtime"
)

func TestNotificationEnvelope(t *testing.T) {
	t.Parallel()

	n := notification.NewLike("user-1", "sender-1", "note-1")
	env := realtime.NewNotificationEnvelope(n)

	data, err := env.Marshal()
	require.NoError(t, err)

	var decoded struct {
		Type      string                    `json:"type"`
		Data      notification.Notification `json:"data"`
		Timestamp int64                     `json:"timestamp"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, realtime.EnvelopeNotification, decoded.Type)
	assert.Equal(t, n.ID, decoded.Data.ID)
	assert.Equal(t, notification.TypeLike, decoded.Data.Type)

	// Timestamp is epoch milliseconds.
	ts := time.UnixMilli(decoded.Timestamp)
	assert.WithinDuration(t, time.Now(), ts, time.Minute)
}

func TestWelcomeEnvelope(t *testing.T) {
	t.Parallel()

	data, err := realtime.NewWelcomeEnvelope(7, "sess-1").Marshal()
	require.NoError(t, err)

	var decoded struct {
		Type string               `json:"type"`
		Data realtime.WelcomeData `json:"data"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, realtime.EnvelopeWelcome, decoded.Type)
	assert.Equal(t, 7, decoded.Data.UnreadCount)
	assert.Equal(t, "sess-1", decoded.Data.SessionID)
}

func TestPongEnvelope(t *testing.T) {
	t.Parallel()

	data, err := realtime.NewPongEnvelope().Marshal()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, realtime.EnvelopePong, decoded["type"])
}
