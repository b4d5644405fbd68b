package rules_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sonetlabs/notifier/pkg/notification"
	"github.com/sonetlabs/notifier/pkg/rules"
)

func TestFromYAML(t *testing.T) {
	t.Parallel()

	doc := `
rules:
  like:
    batching: true
    batch_window: 10m
    max_batch: 20
    deduplicate: true
    dedup_window: 30m
    rate_limit: true
    max_per_hour: 20
    max_per_day: 100
    channels: [realtime, push]
    priority: low
    expiry: 24h
  direct_message:
    channels: [realtime, push, email]
    priority: urgent
    expiry: 168h
`

	s, err := rules.FromYAML(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, 2, s.Len())

	like, ok := s.Get(notification.TypeLike)
	require.True(t, ok)
	assert.True(t, like.Batching)
	assert.Equal(t, 10*time.Minute, like.BatchWindow)
	assert.Equal(t, 20, like.MaxBatch)
	assert.Equal(t, 30*time.Minute, like.DedupWindow)
	assert.Equal(t, notification.ChannelRealtime|notification.ChannelPush, like.AllowedChannels)
	assert.Equal(t, notification.PriorityLow, like.DefaultPriority)

	dm, ok := s.Get(notification.TypeDirectMessage)
	require.True(t, ok)
	assert.False(t, dm.Batching)
	assert.False(t, dm.RateLimit)
	assert.Equal(t, notification.PriorityUrgent, dm.DefaultPriority)
	assert.Equal(t, 7*24*time.Hour, dm.Expiry)
}

func TestFromYAML_Errors(t *testing.T) {
	t.Parallel()

	t.Run("unknown type", func(t *testing.T) {
		t.Parallel()

		_, err := rules.FromYAML(strings.NewReader("rules:\n  poke: {}\n"))
		assert.ErrorIs(t, err, rules.ErrUnknownType)
	})

	t.Run("unknown channel", func(t *testing.T) {
		t.Parallel()

		_, err := rules.FromYAML(strings.NewReader("rules:\n  like:\n    channels: [pigeon]\n"))
		assert.ErrorIs(t, err, rules.ErrUnknownChannel)
	})

	t.Run("unknown priority", func(t *testing.T) {
		t.Parallel()

		_, err := rules.FromYAML(strings.NewReader("rules:\n  like:\n    priority: extreme\n"))
		assert.ErrorIs(t, err, rules.ErrUnknownPriority)
	})

	t.Run("bad duration", func(t *testing.T) {
		t.Parallel()

		_, err := rules.FromYAML(strings.NewReader("rules:\n  like:\n    batch_window: soon\n"))
		assert.ErrorIs(t, err, rules.ErrInvalidYAML)
	})

	t.Run("not yaml", func(t *testing.T) {
		t.Parallel()

		_, err := rules.FromYAML(strings.NewReader("{{{"))
		assert.ErrorIs(t, err, rules.ErrInvalidYAML)
	})
}
