package notification

import (
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

// DefaultExpiry is applied when a notification is created without an
// explicit expiry.
const DefaultExpiry = 24 * time.Hour

// Notification is the unit of work flowing through the delivery pipeline.
// It is created by the triggering domain event, mutated only by the pipeline
// (status transitions) and by user action (read).
type Notification struct {
	ID       string `json:"id"`
	UserID   string `json:"user_id"`   // recipient
	SenderID string `json:"sender_id"` // originating actor, may be "system"
	Type     Type   `json:"type"`

	Title   string `json:"title"`
	Message string `json:"message"`

	// Content references back to the social graph. At most the relevant
	// ones are populated for a given type.
	NoteID         string `json:"note_id,omitempty"`
	CommentID      string `json:"comment_id,omitempty"`
	ConversationID string `json:"conversation_id,omitempty"`

	Channels Channel  `json:"channels"` // requested delivery channels
	Priority Priority `json:"priority"`

	CreatedAt   time.Time  `json:"created_at"`
	ScheduledAt time.Time  `json:"scheduled_at"`
	ExpiresAt   time.Time  `json:"expires_at"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`
	ReadAt      *time.Time `json:"read_at,omitempty"`

	Status        Status `json:"status"`
	Attempts      int    `json:"attempts"`
	FailureReason string `json:"failure_reason,omitempty"`

	GroupKey string `json:"group_key,omitempty"`
	BatchID  string `json:"batch_id,omitempty"`
	Batched  bool   `json:"batched"`

	TemplateID   string         `json:"template_id,omitempty"`
	TemplateData map[string]any `json:"template_data,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}

// NewID returns a fresh time-sortable notification id.
func NewID() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}

// New creates a pending notification with defaults applied.
func New(userID, senderID string, typ Type, title, message string) Notification {
	now := time.Now()
	return Notification{
		ID:          NewID(),
		UserID:      userID,
		SenderID:    senderID,
		Type:        typ,
		Title:       title,
		Message:     message,
		Channels:    ChannelRealtime | ChannelPush,
		Priority:    PriorityNormal,
		Status:      StatusPending,
		CreatedAt:   now,
		ScheduledAt: now,
		ExpiresAt:   now.Add(DefaultExpiry),
	}
}

// Validate checks the invariants a notification must satisfy before it may
// enter the pipeline. A notification in a terminal status is rejected so a
// read, failed or cancelled record can never be re-enqueued.
func (n *Notification) Validate() error {
	if n.ID == "" {
		return ErrMissingID
	}
	if n.UserID == "" {
		return ErrMissingUser
	}
	if !n.Type.Valid() {
		return ErrUnknownType
	}
	if !n.ExpiresAt.IsZero() && !n.CreatedAt.IsZero() && !n.ExpiresAt.After(n.CreatedAt) {
		return ErrInvalidExpiry
	}
	if n.Status.Terminal() {
		return ErrTerminalStatus
	}
	return nil
}

// IsExpired reports whether the notification is past its expiry.
func (n *Notification) IsExpired() bool {
	return !n.ExpiresAt.IsZero() && time.Now().After(n.ExpiresAt)
}

// IsTerminal reports whether the notification reached a final status.
func (n *Notification) IsTerminal() bool {
	return n.Status.Terminal()
}

// MarkSent records a delivery attempt handed to a channel.
func (n *Notification) MarkSent() {
	n.Status = StatusSent
	n.Attempts++
}

// MarkDelivered records successful channel delivery.
func (n *Notification) MarkDelivered() {
	now := time.Now()
	n.Status = StatusDelivered
	n.DeliveredAt = &now
}

// MarkRead records that the recipient has seen the notification.
func (n *Notification) MarkRead() {
	now := time.Now()
	n.Status = StatusRead
	n.ReadAt = &now
}

// MarkFailed records a delivery failure with its reason.
func (n *Notification) MarkFailed(reason string) {
	n.Status = StatusFailed
	n.Attempts++
	n.FailureReason = reason
}

// PrimaryRef returns the content reference used for dedup keys and grouping:
// the note for note-centric events, the conversation for DMs.
func (n *Notification) PrimaryRef() string {
	switch {
	case n.NoteID != "":
		return n.NoteID
	case n.ConversationID != "":
		return n.ConversationID
	case n.CommentID != "":
		return n.CommentID
	default:
		return ""
	}
}

// CanGroupWith reports whether two notifications may share a batch:
// same recipient, same type, and both opted into grouping.
func (n *Notification) CanGroupWith(other *Notification) bool {
	return n.UserID == other.UserID && n.Type == other.Type
}
