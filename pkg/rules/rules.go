package rules

import (
	"time"

	"github.com/sonetlabs/notifier/pkg/notification"
)

// Rule is the per-type delivery policy. Rules are immutable at runtime:
// the Set is built once at startup and only read afterwards.
type Rule struct {
	Type notification.Type

	Batching    bool
	BatchWindow time.Duration
	MaxBatch    int

	Deduplicate bool
	DedupWindow time.Duration

	RateLimit  bool
	MaxPerHour int
	MaxPerDay  int

	AllowedChannels notification.Channel
	DefaultPriority notification.Priority
	Expiry          time.Duration

	// Template ids used by channel renderers, empty means channel default.
	EmailTemplate string
	PushTemplate  string
}

// Set is the lookup table from notification type to its policy.
// A type absent from the set is processed as "send immediately, unlimited".
type Set struct {
	rules map[notification.Type]Rule
}

// NewSet builds a set from explicit rules. Later duplicates win.
func NewSet(rules ...Rule) *Set {
	s := &Set{rules: make(map[notification.Type]Rule, len(rules))}
	for _, r := range rules {
		s.rules[r.Type] = r
	}
	return s
}

// Get returns the rule for a type and whether one exists.
func (s *Set) Get(typ notification.Type) (Rule, bool) {
	r, ok := s.rules[typ]
	return r, ok
}

// Len returns the number of configured rules.
func (s *Set) Len() int {
	return len(s.rules)
}

// Types returns the configured types.
func (s *Set) Types() []notification.Type {
	out := make([]notification.Type, 0, len(s.rules))
	for t := range s.rules {
		out = append(out, t)
	}
	return out
}

// Defaults returns the production policy table. Likes and renotes batch
// aggressively, comments batch lightly, follows and mentions go out
// immediately, and direct messages bypass every gate.
func Defaults() *Set {
	all := notification.ChannelRealtime | notification.ChannelPush | notification.ChannelEmail

	return NewSet(
		Rule{
			Type:            notification.TypeLike,
			Batching:        true,
			BatchWindow:     10 * time.Minute,
			MaxBatch:        20,
			Deduplicate:     true,
			DedupWindow:     30 * time.Minute,
			RateLimit:       true,
			MaxPerHour:      20,
			MaxPerDay:       100,
			AllowedChannels: notification.ChannelRealtime | notification.ChannelPush,
			DefaultPriority: notification.PriorityLow,
			Expiry:          24 * time.Hour,
		},
		Rule{
			Type:            notification.TypeComment,
			Batching:        true,
			BatchWindow:     5 * time.Minute,
			MaxBatch:        5,
			Deduplicate:     false, // each comment is unique
			RateLimit:       true,
			MaxPerHour:      30,
			MaxPerDay:       200,
			AllowedChannels: all,
			DefaultPriority: notification.PriorityNormal,
			Expiry:          24 * time.Hour,
		},
		Rule{
			Type:            notification.TypeFollow,
			Batching:        false,
			Deduplicate:     true,
			DedupWindow:     24 * time.Hour,
			RateLimit:       true,
			MaxPerHour:      10,
			MaxPerDay:       50,
			AllowedChannels: all,
			DefaultPriority: notification.PriorityHigh,
			Expiry:          24 * time.Hour,
		},
		Rule{
			Type:            notification.TypeMention,
			Batching:        false,
			Deduplicate:     false,
			RateLimit:       true,
			MaxPerHour:      15,
			MaxPerDay:       100,
			AllowedChannels: all,
			DefaultPriority: notification.PriorityUrgent,
			Expiry:          24 * time.Hour,
		},
		Rule{
			Type:            notification.TypeReply,
			Batching:        true,
			BatchWindow:     5 * time.Minute,
			MaxBatch:        5,
			Deduplicate:     false,
			RateLimit:       true,
			MaxPerHour:      30,
			MaxPerDay:       200,
			AllowedChannels: all,
			DefaultPriority: notification.PriorityNormal,
			Expiry:          24 * time.Hour,
		},
		Rule{
			Type:            notification.TypeRenote,
			Batching:        true,
			BatchWindow:     15 * time.Minute,
			MaxBatch:        10,
			Deduplicate:     true,
			DedupWindow:     time.Hour,
			RateLimit:       true,
			MaxPerHour:      25,
			MaxPerDay:       150,
			AllowedChannels: all,
			DefaultPriority: notification.PriorityNormal,
			Expiry:          24 * time.Hour,
		},
		Rule{
			Type:            notification.TypeQuote,
			Batching:        true,
			BatchWindow:     15 * time.Minute,
			MaxBatch:        10,
			Deduplicate:     true,
			DedupWindow:     time.Hour,
			RateLimit:       true,
			MaxPerHour:      25,
			MaxPerDay:       150,
			AllowedChannels: all,
			DefaultPriority: notification.PriorityNormal,
			Expiry:          24 * time.Hour,
		},
		Rule{
			// DMs are never gated: no batching, no dedup, no caps.
			Type:            notification.TypeDirectMessage,
			AllowedChannels: all,
			DefaultPriority: notification.PriorityUrgent,
			Expiry:          7 * 24 * time.Hour,
		},
		Rule{
			Type:            notification.TypeSystemAlert,
			Batching:        false,
			Deduplicate:     true,
			DedupWindow:     time.Hour,
			RateLimit:       false,
			AllowedChannels: all,
			DefaultPriority: notification.PriorityHigh,
			Expiry:          7 * 24 * time.Hour,
		},
		Rule{
			Type:            notification.TypePromotion,
			Batching:        true,
			BatchWindow:     time.Hour,
			MaxBatch:        5,
			Deduplicate:     true,
			DedupWindow:     24 * time.Hour,
			RateLimit:       true,
			MaxPerHour:      2,
			MaxPerDay:       5,
			AllowedChannels: notification.ChannelPush | notification.ChannelEmail,
			DefaultPriority: notification.PriorityLow,
			Expiry:          48 * time.Hour,
		},
		Rule{
			Type:            notification.TypeTrendingNote,
			Batching:        false,
			Deduplicate:     true,
			DedupWindow:     6 * time.Hour,
			RateLimit:       true,
			MaxPerHour:      3,
			MaxPerDay:       10,
			AllowedChannels: notification.ChannelRealtime | notification.ChannelPush,
			DefaultPriority: notification.PriorityNormal,
			Expiry:          24 * time.Hour,
		},
		Rule{
			Type:            notification.TypeFollowerMilestone,
			Batching:        false,
			Deduplicate:     true,
			DedupWindow:     24 * time.Hour,
			RateLimit:       true,
			MaxPerHour:      2,
			MaxPerDay:       5,
			AllowedChannels: all,
			DefaultPriority: notification.PriorityNormal,
			Expiry:          7 * 24 * time.Hour,
		},
		Rule{
			Type:            notification.TypeNoteMilestone,
			Batching:        false,
			Deduplicate:     true,
			DedupWindow:     24 * time.Hour,
			RateLimit:       true,
			MaxPerHour:      2,
			MaxPerDay:       5,
			AllowedChannels: all,
			DefaultPriority: notification.PriorityNormal,
			Expiry:          7 * 24 * time.Hour,
		},
	)
}
