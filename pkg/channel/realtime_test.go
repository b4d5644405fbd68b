package channel_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sonetlabs/notifier/pkg/channel"
	"github.com/sonetlabs/notifier/pkg/notification"
	"github.com/sonetlabs/notifier/pkg/realtime"
)

type memorySession struct {
	id string

	mu       sync.Mutex
	sent     [][]byte
	failSend bool
}

func (s *memorySession) ID() string { return s.id }

func (s *memorySession) Send(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failSend {
		return errors.New("send failed")
	}
	s.sent = append(s.sent, data)
	return nil
}

func (s *memorySession) Ping() error  { return nil }
func (s *memorySession) Close() error { return nil }

func TestRealtime_Deliver(t *testing.T) {
	t.Parallel()

	registry := realtime.NewRegistry()
	sess := &memorySession{id: "sess-1"}
	registry.Add(sess, "user-1", nil)

	rt := channel.NewRealtime(registry)
	assert.Equal(t, "realtime", rt.Name())
	assert.Equal(t, notification.ChannelRealtime, rt.Bit())

	n := notification.NewLike("user-1", "sender-1", "note-1")
	require.NoError(t, rt.Deliver(context.Background(), n, notification.DefaultPreferences("user-1")))

	require.Len(t, sess.sent, 1)
	var env struct {
		Type string                    `json:"type"`
		Data notification.Notification `json:"data"`
	}
	require.NoError(t, json.Unmarshal(sess.sent[0], &env))
	assert.Equal(t, realtime.EnvelopeNotification, env.Type)
	assert.Equal(t, n.ID, env.Data.ID)
}

func TestRealtime_Deliver_Offline(t *testing.T) {
	t.Parallel()

	rt := channel.NewRealtime(realtime.NewRegistry())

	n := notification.NewLike("user-1", "sender-1", "note-1")
	err := rt.Deliver(context.Background(), n, notification.DefaultPreferences("user-1"))
	assert.ErrorIs(t, err, channel.ErrUserOffline)
}

func TestRealtime_Deliver_AllSessionsFailing(t *testing.T) {
	t.Parallel()

	registry := realtime.NewRegistry()
	registry.Add(&memorySession{id: "sess-1", failSend: true}, "user-1", nil)

	rt := channel.NewRealtime(registry)
	n := notification.NewLike("user-1", "sender-1", "note-1")
	assert.ErrorIs(t, rt.Deliver(context.Background(), n, notification.DefaultPreferences("user-1")), channel.ErrUserOffline)
}
