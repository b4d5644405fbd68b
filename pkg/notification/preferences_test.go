package notification_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sonetlabs/notifier/pkg/notification"
)

func TestDefaultPreferences(t *testing.T) {
	t.Parallel()

	p := notification.DefaultPreferences("user-1")

	assert.Equal(t, "user-1", p.UserID)
	assert.True(t, p.ChannelEnabled(notification.TypeLike, notification.ChannelRealtime))
	assert.True(t, p.ChannelEnabled(notification.TypeLike, notification.ChannelPush))
	assert.True(t, p.ChannelEnabled(notification.TypeLike, notification.ChannelEmail))
	assert.False(t, p.ChannelEnabled(notification.TypeLike, notification.ChannelSMS))
}

func TestPreferences_PerTypeOverride(t *testing.T) {
	t.Parallel()

	p := notification.DefaultPreferences("user-1")
	p.Channels = map[notification.Type]notification.Channel{
		notification.TypeLike: notification.ChannelRealtime,
	}

	assert.True(t, p.ChannelEnabled(notification.TypeLike, notification.ChannelRealtime))
	assert.False(t, p.ChannelEnabled(notification.TypeLike, notification.ChannelPush))
	// Other types still use the default bitset.
	assert.True(t, p.ChannelEnabled(notification.TypeComment, notification.ChannelPush))
}

func TestPreferences_DisabledType(t *testing.T) {
	t.Parallel()

	p := notification.DefaultPreferences("user-1")
	p.Enabled = map[notification.Type]bool{notification.TypePromotion: false}

	assert.False(t, p.ChannelEnabled(notification.TypePromotion, notification.ChannelRealtime))
	assert.Equal(t, notification.Channel(0), p.EnabledChannels(notification.TypePromotion))
	assert.NotEqual(t, notification.Channel(0), p.EnabledChannels(notification.TypeLike))
}

func TestPreferences_SenderBlocked(t *testing.T) {
	t.Parallel()

	p := notification.DefaultPreferences("user-1")
	p.BlockedSenders = []string{"troll-1", "troll-2"}

	assert.True(t, p.SenderBlocked("troll-1"))
	assert.False(t, p.SenderBlocked("friend-1"))
}

func TestPreferences_QuietHours(t *testing.T) {
	t.Parallel()

	at := func(hour int) time.Time {
		return time.Date(2025, 6, 1, hour, 30, 0, 0, time.UTC)
	}

	t.Run("disabled", func(t *testing.T) {
		t.Parallel()

		p := notification.DefaultPreferences("user-1")
		assert.False(t, p.InQuietHours(at(3)))
	})

	t.Run("same day window", func(t *testing.T) {
		t.Parallel()

		p := notification.DefaultPreferences("user-1")
		p.QuietHours = true
		p.QuietStart = 13
		p.QuietEnd = 15

		assert.False(t, p.InQuietHours(at(12)))
		assert.True(t, p.InQuietHours(at(13)))
		assert.True(t, p.InQuietHours(at(14)))
		assert.False(t, p.InQuietHours(at(15)))
	})

	t.Run("window wrapping midnight", func(t *testing.T) {
		t.Parallel()

		p := notification.DefaultPreferences("user-1")
		p.QuietHours = true
		p.QuietStart = 22
		p.QuietEnd = 7

		assert.True(t, p.InQuietHours(at(23)))
		assert.True(t, p.InQuietHours(at(2)))
		assert.False(t, p.InQuietHours(at(7)))
		assert.False(t, p.InQuietHours(at(12)))
	})
}
