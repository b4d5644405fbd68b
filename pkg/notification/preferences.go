package notification

import (
	"slices"
	"time"
)

// Preferences captures how a user wants to be notified. The pipeline resolves
// preferences from the repository before dispatching; absence of stored
// preferences means DefaultPreferences.
type Preferences struct {
	UserID string `json:"user_id"`

	// Channels holds the enabled channel bitset per type. A type missing
	// from the map falls back to the Default bitset.
	Channels map[Type]Channel `json:"channels,omitempty"`
	Default  Channel          `json:"default"`

	// Enabled disables whole types when set to false. Missing means enabled.
	Enabled map[Type]bool `json:"enabled,omitempty"`

	BlockedSenders []string `json:"blocked_senders,omitempty"`

	QuietHours bool `json:"quiet_hours"`
	QuietStart int  `json:"quiet_start"` // hour of day, 0-23
	QuietEnd   int  `json:"quiet_end"`
}

// DefaultPreferences enables realtime, push and email delivery for all types.
func DefaultPreferences(userID string) Preferences {
	return Preferences{
		UserID:  userID,
		Default: ChannelRealtime | ChannelPush | ChannelEmail,
	}
}

// ChannelEnabled reports whether the user accepts the given channel for the
// given notification type.
func (p *Preferences) ChannelEnabled(typ Type, ch Channel) bool {
	if enabled, ok := p.Enabled[typ]; ok && !enabled {
		return false
	}
	if set, ok := p.Channels[typ]; ok {
		return set.Has(ch)
	}
	return p.Default.Has(ch)
}

// EnabledChannels returns the full bitset the user accepts for a type.
func (p *Preferences) EnabledChannels(typ Type) Channel {
	if enabled, ok := p.Enabled[typ]; ok && !enabled {
		return 0
	}
	if set, ok := p.Channels[typ]; ok {
		return set
	}
	return p.Default
}

// SenderBlocked reports whether the user blocked the sender.
func (p *Preferences) SenderBlocked(senderID string) bool {
	return slices.Contains(p.BlockedSenders, senderID)
}

// InQuietHours reports whether now falls inside the user's quiet window.
// The window may wrap midnight (e.g. 22 to 7).
func (p *Preferences) InQuietHours(now time.Time) bool {
	if !p.QuietHours {
		return false
	}
	h := now.Hour()
	if p.QuietStart <= p.QuietEnd {
		return h >= p.QuietStart && h < p.QuietEnd
	}
	return h >= p.QuietStart || h < p.QuietEnd
}
