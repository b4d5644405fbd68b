package batch_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sonetlabs/notifier/pkg/batch"
	"github.com/sonetlabs/notifier/pkg/notification"
	"github.com/sonetlabs/notifier/pkg/rules"
)

func likeRule() rules.Rule {
	return rules.Rule{
		Type:        notification.TypeLike,
		Batching:    true,
		BatchWindow: 10 * time.Minute,
		MaxBatch:    3,
	}
}

func TestManager_Put_Accumulates(t *testing.T) {
	t.Parallel()

	m := batch.NewManager()

	full, err := m.Put(notification.NewLike("user-1", "s1", "note-1"), likeRule())
	require.NoError(t, err)
	assert.Nil(t, full)
	assert.Equal(t, 1, m.OpenBatches())

	full, err = m.Put(notification.NewLike("user-1", "s2", "note-1"), likeRule())
	require.NoError(t, err)
	assert.Nil(t, full)
	assert.Equal(t, 1, m.OpenBatches())
	assert.Equal(t, uint64(1), m.Created())
}

func TestManager_Put_DetachesFullBatch(t *testing.T) {
	t.Parallel()

	m := batch.NewManager()

	for i := 0; i < 2; i++ {
		full, err := m.Put(notification.NewLike("user-1", "s", "note-1"), likeRule())
		require.NoError(t, err)
		require.Nil(t, full)
	}

	full, err := m.Put(notification.NewLike("user-1", "s", "note-1"), likeRule())
	require.NoError(t, err)
	require.NotNil(t, full)
	assert.Equal(t, 3, full.Size())
	assert.Equal(t, 0, m.OpenBatches())

	// The next eligible notification opens a fresh batch.
	next, err := m.Put(notification.NewLike("user-1", "s", "note-1"), likeRule())
	require.NoError(t, err)
	assert.Nil(t, next)
	assert.Equal(t, 1, m.OpenBatches())
	assert.Equal(t, uint64(2), m.Created())
}

func TestManager_Put_SeparateKeys(t *testing.T) {
	t.Parallel()

	m := batch.NewManager()
	commentRule := rules.Rule{Type: notification.TypeComment, Batching: true, BatchWindow: 5 * time.Minute, MaxBatch: 5}

	_, err := m.Put(notification.NewLike("user-1", "s", "note-1"), likeRule())
	require.NoError(t, err)
	_, err = m.Put(notification.NewLike("user-2", "s", "note-1"), likeRule())
	require.NoError(t, err)
	_, err = m.Put(notification.NewComment("user-1", "s", "note-1", "c1"), commentRule)
	require.NoError(t, err)

	assert.Equal(t, 3, m.OpenBatches())
}

func TestManager_FlushReady(t *testing.T) {
	t.Parallel()

	now := time.Now()
	var mu sync.Mutex
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}

	m := batch.NewManager(batch.WithClock(clock))

	_, err := m.Put(notification.NewLike("user-1", "s", "note-1"), likeRule())
	require.NoError(t, err)

	assert.Empty(t, m.FlushReady())

	mu.Lock()
	now = now.Add(11 * time.Minute)
	mu.Unlock()

	ready := m.FlushReady()
	require.Len(t, ready, 1)
	assert.Equal(t, "user-1", ready[0].UserID)
	assert.Equal(t, 0, m.OpenBatches())
}

func TestManager_DeadlineUsesClock(t *testing.T) {
	t.Parallel()

	base := time.Date(2020, time.March, 1, 12, 0, 0, 0, time.UTC)
	now := base
	var mu sync.Mutex
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}

	m := batch.NewManager(batch.WithClock(clock))

	_, err := m.Put(notification.NewLike("user-1", "s", "note-1"), likeRule())
	require.NoError(t, err)

	// Deadline is derived from the injected clock, not the wall clock.
	mu.Lock()
	now = base.Add(9 * time.Minute)
	mu.Unlock()
	assert.Empty(t, m.FlushReady())

	mu.Lock()
	now = base.Add(10 * time.Minute)
	mu.Unlock()
	ready := m.FlushReady()
	require.Len(t, ready, 1)
	assert.Equal(t, base.Add(10*time.Minute), ready[0].ScheduledAt)
}

func TestManager_FlushUser(t *testing.T) {
	t.Parallel()

	m := batch.NewManager()
	commentRule := rules.Rule{Type: notification.TypeComment, Batching: true, BatchWindow: 5 * time.Minute, MaxBatch: 5}

	_, err := m.Put(notification.NewLike("user-1", "s", "note-1"), likeRule())
	require.NoError(t, err)
	_, err = m.Put(notification.NewComment("user-1", "s", "note-1", "c1"), commentRule)
	require.NoError(t, err)
	_, err = m.Put(notification.NewLike("user-2", "s", "note-1"), likeRule())
	require.NoError(t, err)

	flushed := m.FlushUser("user-1")
	assert.Len(t, flushed, 2)
	assert.Equal(t, 1, m.OpenBatches())
}

func TestManager_FlushAll(t *testing.T) {
	t.Parallel()

	m := batch.NewManager()
	_, err := m.Put(notification.NewLike("user-1", "s", "note-1"), likeRule())
	require.NoError(t, err)
	_, err = m.Put(notification.NewLike("user-2", "s", "note-1"), likeRule())
	require.NoError(t, err)

	assert.Len(t, m.FlushAll(), 2)
	assert.Equal(t, 0, m.OpenBatches())
}

func TestManager_Concurrent(t *testing.T) {
	t.Parallel()

	m := batch.NewManager()
	rule := rules.Rule{Type: notification.TypeLike, Batching: true, BatchWindow: time.Hour, MaxBatch: 10}

	var wg sync.WaitGroup
	fullBatches := make(chan *notification.Batch, 100)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			full, err := m.Put(notification.NewLike("user-1", "s", "note-1"), rule)
			assert.NoError(t, err)
			if full != nil {
				fullBatches <- full
			}
		}()
	}
	wg.Wait()
	close(fullBatches)

	detached := 0
	members := 0
	for b := range fullBatches {
		detached++
		members += b.Size()
	}
	assert.Equal(t, 10, detached)
	assert.Equal(t, 100, members)
	assert.Equal(t, 0, m.OpenBatches())
}
