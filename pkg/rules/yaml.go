package rules

import (
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sonetlabs/notifier/pkg/notification"
)

// duration accepts Go duration syntax ("10m") in YAML scalars.
type duration time.Duration

func (d *duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDuration, raw)
	}
	*d = duration(parsed)
	return nil
}

// yamlRule is the on-disk shape of a rule. Durations use Go syntax ("10m"),
// channels and priority use their canonical names.
type yamlRule struct {
	Batching    bool     `yaml:"batching"`
	BatchWindow duration `yaml:"batch_window"`
	MaxBatch    int      `yaml:"max_batch"`

	Deduplicate bool     `yaml:"deduplicate"`
	DedupWindow duration `yaml:"dedup_window"`

	RateLimit  bool `yaml:"rate_limit"`
	MaxPerHour int  `yaml:"max_per_hour"`
	MaxPerDay  int  `yaml:"max_per_day"`

	Channels []string `yaml:"channels"`
	Priority string   `yaml:"priority"`
	Expiry   duration `yaml:"expiry"`

	EmailTemplate string `yaml:"email_template"`
	PushTemplate  string `yaml:"push_template"`
}

type yamlDoc struct {
	Rules map[string]yamlRule `yaml:"rules"`
}

// FromYAML loads a rule table from an ops-supplied YAML document. Unknown
// type or channel names are an error so a typo cannot silently disable a
// policy.
func FromYAML(r io.Reader) (*Set, error) {
	var doc yamlDoc
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidYAML, err)
	}

	out := make([]Rule, 0, len(doc.Rules))
	for name, yr := range doc.Rules {
		typ := notification.Type(name)
		if !typ.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrUnknownType, name)
		}

		channels, err := parseChannels(yr.Channels)
		if err != nil {
			return nil, err
		}
		priority, err := parsePriority(yr.Priority)
		if err != nil {
			return nil, err
		}

		out = append(out, Rule{
			Type:            typ,
			Batching:        yr.Batching,
			BatchWindow:     time.Duration(yr.BatchWindow),
			MaxBatch:        yr.MaxBatch,
			Deduplicate:     yr.Deduplicate,
			DedupWindow:     time.Duration(yr.DedupWindow),
			RateLimit:       yr.RateLimit,
			MaxPerHour:      yr.MaxPerHour,
			MaxPerDay:       yr.MaxPerDay,
			AllowedChannels: channels,
			DefaultPriority: priority,
			Expiry:          time.Duration(yr.Expiry),
			EmailTemplate:   yr.EmailTemplate,
			PushTemplate:    yr.PushTemplate,
		})
	}

	return NewSet(out...), nil
}

func parseChannels(names []string) (notification.Channel, error) {
	var set notification.Channel
	for _, name := range names {
		found := false
		for ch, chName := range notification.ChannelNames {
			if chName == name {
				set |= ch
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("%w: %q", ErrUnknownChannel, name)
		}
	}
	return set, nil
}

func parsePriority(name string) (notification.Priority, error) {
	switch name {
	case "", "normal":
		return notification.PriorityNormal, nil
	case "low":
		return notification.PriorityLow, nil
	case "high":
		return notification.PriorityHigh, nil
	case "urgent":
		return notification.PriorityUrgent, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownPriority, name)
	}
}
