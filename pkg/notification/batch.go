package notification

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Batch aggregates same-user, same-type notifications awaiting a single
// delivery. All members share the recipient and the type; a batch is a
// single logical delivery unit, so its members succeed or fail together.
type Batch struct {
	ID          string         `json:"id"`
	UserID      string         `json:"user_id"`
	Type        Type           `json:"type"`
	Members     []Notification `json:"members"`
	CreatedAt   time.Time      `json:"created_at"`
	ScheduledAt time.Time      `json:"scheduled_at"` // deadline for window flush
	Status      Status         `json:"status"`

	TotalCount     int `json:"total_count"`
	DeliveredCount int `json:"delivered_count"`
	FailedCount    int `json:"failed_count"`
}

// NewBatch opens a batch for the given user and type with a flush deadline
// of now plus the batching window.
func NewBatch(userID string, typ Type, window time.Duration, now time.Time) *Batch {
	return &Batch{
		ID:          uuid.New().String(),
		UserID:      userID,
		Type:        typ,
		CreatedAt:   now,
		ScheduledAt: now.Add(window),
		Status:      StatusPending,
	}
}

// Add appends a compatible notification to the batch.
func (b *Batch) Add(n Notification) error {
	if n.UserID != b.UserID || n.Type != b.Type {
		return ErrBatchMismatch
	}
	n.BatchID = b.ID
	n.Batched = true
	b.Members = append(b.Members, n)
	b.TotalCount++
	return nil
}

// Full reports whether the batch reached the rule's size cap.
func (b *Batch) Full(maxSize int) bool {
	return maxSize > 0 && len(b.Members) >= maxSize
}

// Ready reports whether the flush deadline has passed.
func (b *Batch) Ready(now time.Time) bool {
	return !now.Before(b.ScheduledAt)
}

// Size returns the current member count.
func (b *Batch) Size() int {
	return len(b.Members)
}

// MarkDelivered records that the batch was delivered as a unit.
func (b *Batch) MarkDelivered() {
	b.Status = StatusDelivered
	b.DeliveredCount = len(b.Members)
}

// MarkFailed records that batch delivery failed. Every member fails with it.
func (b *Batch) MarkFailed() {
	b.Status = StatusFailed
	b.FailedCount = len(b.Members)
}

// Summary returns the aggregate human-readable line for the batch.
func (b *Batch) Summary() string {
	if len(b.Members) == 0 {
		return "Empty notification batch"
	}
	if len(b.Members) == 1 {
		return b.Members[0].Message
	}
	return fmt.Sprintf("You have %d new %s notifications", len(b.Members), b.Type)
}

// Aggregate synthesizes the single notification delivered for the batch.
// Priority is the highest among members; channels are the union of member
// requests.
func (b *Batch) Aggregate() Notification {
	n := New(b.UserID, "system", b.Type, b.Summary(), b.Summary())
	n.BatchID = b.ID
	n.Batched = true
	n.Priority = PriorityLow
	n.Channels = 0
	for _, m := range b.Members {
		if m.Priority > n.Priority {
			n.Priority = m.Priority
		}
		n.Channels |= m.Channels
	}
	if len(b.Members) > 0 {
		n.NoteID = b.Members[0].NoteID
		n.GroupKey = b.Members[0].GroupKey
	}
	n.Metadata = map[string]any{
		"batch_id":    b.ID,
		"batch_count": len(b.Members),
	}
	return n
}
