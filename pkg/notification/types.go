package notification

// Type identifies the social event that produced a notification.
// The set is closed: every type has an entry in the processing rule table
// (or deliberately none, which means "send immediately, unlimited").
type Type string

const (
	TypeLike              Type = "like"
	TypeComment           Type = "comment"
	TypeFollow            Type = "follow"
	TypeMention           Type = "mention"
	TypeReply             Type = "reply"
	TypeRenote            Type = "renote"
	TypeQuote             Type = "quote"
	TypeDirectMessage     Type = "direct_message"
	TypeSystemAlert       Type = "system_alert"
	TypePromotion         Type = "promotion"
	TypeTrendingNote      Type = "trending_note"
	TypeFollowerMilestone Type = "follower_milestone"
	TypeNoteMilestone     Type = "note_milestone"
)

// Types lists every known notification type.
var Types = []Type{
	TypeLike, TypeComment, TypeFollow, TypeMention, TypeReply,
	TypeRenote, TypeQuote, TypeDirectMessage, TypeSystemAlert,
	TypePromotion, TypeTrendingNote, TypeFollowerMilestone, TypeNoteMilestone,
}

// Valid reports whether t is a known notification type.
func (t Type) Valid() bool {
	for _, known := range Types {
		if t == known {
			return true
		}
	}
	return false
}

// Priority represents the notification priority level.
type Priority int

const (
	PriorityLow Priority = iota + 1
	PriorityNormal
	PriorityHigh
	PriorityUrgent
)

func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityNormal:
		return "normal"
	case PriorityHigh:
		return "high"
	case PriorityUrgent:
		return "urgent"
	default:
		return "unknown"
	}
}

// Status tracks a notification through its delivery lifecycle.
type Status string

const (
	StatusPending   Status = "pending"
	StatusSent      Status = "sent"
	StatusDelivered Status = "delivered"
	StatusRead      Status = "read"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// Terminal reports whether the status is final. A notification in a terminal
// status is never re-enqueued.
func (s Status) Terminal() bool {
	return s == StatusRead || s == StatusFailed || s == StatusCancelled
}

// Channel is a bitset of delivery mechanisms. The values are wire-compatible
// with the persisted bitfield, so they must not be reordered.
type Channel int

const (
	ChannelRealtime Channel = 1 << iota // live socket push
	ChannelPush                         // mobile push provider
	ChannelEmail
	ChannelSMS
	ChannelWebhook
)

// ChannelNames maps each channel bit to its canonical name.
var ChannelNames = map[Channel]string{
	ChannelRealtime: "realtime",
	ChannelPush:     "push",
	ChannelEmail:    "email",
	ChannelSMS:      "sms",
	ChannelWebhook:  "webhook",
}

func (c Channel) String() string {
	if name, ok := ChannelNames[c]; ok {
		return name
	}
	return "unknown"
}

// Has reports whether the bitset contains the given channel.
func (c Channel) Has(ch Channel) bool {
	return c&ch != 0
}

// With returns the bitset with the given channel added.
func (c Channel) With(ch Channel) Channel {
	return c | ch
}

// Without returns the bitset with the given channel removed.
func (c Channel) Without(ch Channel) Channel {
	return c &^ ch
}
