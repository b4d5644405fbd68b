package notification_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sonetlabs/notifier/pkg/notification"
)

func TestNew(t *testing.T) {
	t.Parallel()

	n := notification.New("user-1", "user-2", notification.TypeLike, "title", "message")

	assert.NotEmpty(t, n.ID)
	assert.Equal(t, "user-1", n.UserID)
	assert.Equal(t, "user-2", n.SenderID)
	assert.Equal(t, notification.StatusPending, n.Status)
	assert.Equal(t, notification.PriorityNormal, n.Priority)
	assert.True(t, n.Channels.Has(notification.ChannelRealtime))
	assert.True(t, n.Channels.Has(notification.ChannelPush))
	assert.False(t, n.Channels.Has(notification.ChannelEmail))
	assert.Equal(t, n.CreatedAt.Add(notification.DefaultExpiry), n.ExpiresAt)
	require.NoError(t, n.Validate())
}

func TestNewID_Sortable(t *testing.T) {
	t.Parallel()

	a := notification.NewID()
	b := notification.NewID()
	assert.Len(t, a, 26)
	assert.NotEqual(t, a, b)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	t.Run("missing id", func(t *testing.T) {
		t.Parallel()

		n := notification.New("user-1", "user-2", notification.TypeLike, "t", "m")
		n.ID = ""
		assert.ErrorIs(t, n.Validate(), notification.ErrMissingID)
	})

	t.Run("missing user", func(t *testing.T) {
		t.Parallel()

		n := notification.New("", "user-2", notification.TypeLike, "t", "m")
		assert.ErrorIs(t, n.Validate(), notification.ErrMissingUser)
	})

	t.Run("unknown type", func(t *testing.T) {
		t.Parallel()

		n := notification.New("user-1", "user-2", notification.Type("bogus"), "t", "m")
		assert.ErrorIs(t, n.Validate(), notification.ErrUnknownType)
	})

	t.Run("expiry before creation", func(t *testing.T) {
		t.Parallel()

		n := notification.New("user-1", "user-2", notification.TypeLike, "t", "m")
		n.ExpiresAt = n.CreatedAt.Add(-time.Hour)
		assert.ErrorIs(t, n.Validate(), notification.ErrInvalidExpiry)
	})

	t.Run("terminal status", func(t *testing.T) {
		t.Parallel()

		for _, st := range []notification.Status{
			notification.StatusRead,
			notification.StatusFailed,
			notification.StatusCancelled,
		} {
			n := notification.New("user-1", "user-2", notification.TypeLike, "t", "m")
			n.Status = st
			assert.ErrorIs(t, n.Validate(), notification.ErrTerminalStatus)
		}
	})
}

func TestStatusTransitions(t *testing.T) {
	t.Parallel()

	n := notification.New("user-1", "user-2", notification.TypeComment, "t", "m")

	n.MarkSent()
	assert.Equal(t, notification.StatusSent, n.Status)
	assert.Equal(t, 1, n.Attempts)

	n.MarkDelivered()
	assert.Equal(t, notification.StatusDelivered, n.Status)
	require.NotNil(t, n.DeliveredAt)
	assert.False(t, n.IsTerminal())

	n.MarkRead()
	assert.Equal(t, notification.StatusRead, n.Status)
	require.NotNil(t, n.ReadAt)
	assert.True(t, n.IsTerminal())
}

func TestMarkFailed(t *testing.T) {
	t.Parallel()

	n := notification.New("user-1", "user-2", notification.TypeComment, "t", "m")
	n.MarkFailed("provider unavailable")

	assert.Equal(t, notification.StatusFailed, n.Status)
	assert.Equal(t, "provider unavailable", n.FailureReason)
	assert.Equal(t, 1, n.Attempts)
	assert.True(t, n.IsTerminal())
}

func TestIsExpired(t *testing.T) {
	t.Parallel()

	n := notification.New("user-1", "user-2", notification.TypeLike, "t", "m")
	assert.False(t, n.IsExpired())

	n.ExpiresAt = time.Now().Add(-time.Minute)
	assert.True(t, n.IsExpired())

	n.ExpiresAt = time.Time{}
	assert.False(t, n.IsExpired())
}

func TestPrimaryRef(t *testing.T) {
	t.Parallel()

	n := notification.New("user-1", "user-2", notification.TypeLike, "t", "m")
	assert.Empty(t, n.PrimaryRef())

	n.CommentID = "comment-1"
	assert.Equal(t, "comment-1", n.PrimaryRef())

	n.ConversationID = "conv-1"
	assert.Equal(t, "conv-1", n.PrimaryRef())

	n.NoteID = "note-1"
	assert.Equal(t, "note-1", n.PrimaryRef())
}

func TestCanGroupWith(t *testing.T) {
	t.Parallel()

	a := notification.NewLike("user-1", "sender-1", "note-1")
	b := notification.NewLike("user-1", "sender-2", "note-2")
	c := notification.NewLike("user-2", "sender-1", "note-1")
	d := notification.NewComment("user-1", "sender-1", "note-1", "comment-1")

	assert.True(t, a.CanGroupWith(&b))
	assert.False(t, a.CanGroupWith(&c))
	assert.False(t, a.CanGroupWith(&d))
}
