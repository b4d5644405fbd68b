package rules

import "errors"

var (
	// ErrInvalidYAML is returned when the rules document cannot be parsed.
	ErrInvalidYAML = errors.New("rules: invalid yaml document")

	// ErrUnknownType is returned for a rule keyed by an unknown notification type.
	ErrUnknownType = errors.New("rules: unknown notification type")

	// ErrUnknownChannel is returned for an unrecognized channel name.
	ErrUnknownChannel = errors.New("rules: unknown channel")

	// ErrUnknownPriority is returned for an unrecognized priority name.
	ErrUnknownPriority = errors.New("rules: unknown priority")

	// ErrInvalidDuration is returned for a duration that does not parse.
	ErrInvalidDuration = errors.New("rules: invalid duration")
)
