package notification_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sonetlabs/notifier/pkg/notification"
)

func TestBatch_Add(t *testing.T) {
	t.Parallel()

	b := notification.NewBatch("user-1", notification.TypeLike, 10*time.Minute, time.Now())
	require.NotEmpty(t, b.ID)
	assert.Equal(t, notification.StatusPending, b.Status)

	n := notification.NewLike("user-1", "sender-1", "note-1")
	require.NoError(t, b.Add(n))
	assert.Equal(t, 1, b.Size())
	assert.Equal(t, 1, b.TotalCount)

	// Members carry the batch id, not the caller's copy.
	assert.Equal(t, b.ID, b.Members[0].BatchID)
	assert.True(t, b.Members[0].Batched)
	assert.Empty(t, n.BatchID)
}

func TestBatch_Add_Mismatch(t *testing.T) {
	t.Parallel()

	b := notification.NewBatch("user-1", notification.TypeLike, 10*time.Minute, time.Now())

	wrongUser := notification.NewLike("user-2", "sender-1", "note-1")
	assert.ErrorIs(t, b.Add(wrongUser), notification.ErrBatchMismatch)

	wrongType := notification.NewComment("user-1", "sender-1", "note-1", "comment-1")
	assert.ErrorIs(t, b.Add(wrongType), notification.ErrBatchMismatch)

	assert.Equal(t, 0, b.Size())
}

func TestBatch_FullAndReady(t *testing.T) {
	t.Parallel()

	b := notification.NewBatch("user-1", notification.TypeLike, 10*time.Minute, time.Now())
	for i := 0; i < 3; i++ {
		require.NoError(t, b.Add(notification.NewLike("user-1", "sender", "note")))
	}

	assert.False(t, b.Full(0)) // zero cap means uncapped
	assert.False(t, b.Full(4))
	assert.True(t, b.Full(3))

	assert.False(t, b.Ready(b.CreatedAt))
	assert.True(t, b.Ready(b.ScheduledAt))
	assert.True(t, b.Ready(b.ScheduledAt.Add(time.Second)))
}

func TestBatch_Summary(t *testing.T) {
	t.Parallel()

	b := notification.NewBatch("user-1", notification.TypeLike, time.Minute, time.Now())
	assert.Equal(t, "Empty notification batch", b.Summary())

	require.NoError(t, b.Add(notification.NewLike("user-1", "sender-1", "note-1")))
	assert.Equal(t, "{{sender_name}} liked your note", b.Summary())

	require.NoError(t, b.Add(notification.NewLike("user-1", "sender-2", "note-1")))
	assert.Equal(t, "You have 2 new like notifications", b.Summary())
}

func TestBatch_Aggregate(t *testing.T) {
	t.Parallel()

	b := notification.NewBatch("user-1", notification.TypeMention, time.Minute, time.Now())
	low := notification.New("user-1", "sender-1", notification.TypeMention, "t", "m")
	low.Priority = notification.PriorityLow
	low.Channels = notification.ChannelRealtime
	low.NoteID = "note-1"
	urgent := notification.New("user-1", "sender-2", notification.TypeMention, "t", "m")
	urgent.Priority = notification.PriorityUrgent
	urgent.Channels = notification.ChannelPush | notification.ChannelEmail
	require.NoError(t, b.Add(low))
	require.NoError(t, b.Add(urgent))

	agg := b.Aggregate()
	assert.Equal(t, "user-1", agg.UserID)
	assert.Equal(t, notification.TypeMention, agg.Type)
	assert.Equal(t, notification.PriorityUrgent, agg.Priority)
	assert.Equal(t, notification.ChannelRealtime|notification.ChannelPush|notification.ChannelEmail, agg.Channels)
	assert.Equal(t, b.ID, agg.BatchID)
	assert.True(t, agg.Batched)
	assert.Equal(t, "note-1", agg.NoteID)
	assert.Equal(t, 2, agg.Metadata["batch_count"])
}

func TestBatch_MarkOutcome(t *testing.T) {
	t.Parallel()

	b := notification.NewBatch("user-1", notification.TypeLike, time.Minute, time.Now())
	require.NoError(t, b.Add(notification.NewLike("user-1", "s1", "n1")))
	require.NoError(t, b.Add(notification.NewLike("user-1", "s2", "n1")))

	b.MarkDelivered()
	assert.Equal(t, notification.StatusDelivered, b.Status)
	assert.Equal(t, 2, b.DeliveredCount)

	b.MarkFailed()
	assert.Equal(t, notification.StatusFailed, b.Status)
	assert.Equal(t, 2, b.FailedCount)
}
