package channel

import "errors"

var (
	// ErrUserOffline indicates the realtime channel found no live session
	// for the target user.
	ErrUserOffline = errors.New("user has no active realtime sessions")

	// ErrSendFailed wraps a provider-level delivery failure.
	ErrSendFailed = errors.New("failed to send notification")

	// ErrProviderBudget indicates the provider call budget was exhausted
	// and the delivery was shed rather than queued.
	ErrProviderBudget = errors.New("provider call budget exhausted")

	// ErrPriorityTooLow indicates the notification did not meet the
	// channel's minimum priority and was skipped.
	ErrPriorityTooLow = errors.New("notification priority below channel threshold")

	// ErrNoChannels indicates no channel survived the intersection of the
	// notification's channels, the rule's allowed set and user preferences.
	ErrNoChannels = errors.New("no delivery channels available")

	// ErrMissingProvider indicates the channel was constructed without its
	// required provider collaborator.
	ErrMissingProvider = errors.New("delivery provider is required")

	// ErrInvalidEmailConfig indicates the email provider configuration is
	// incomplete.
	ErrInvalidEmailConfig = errors.New("invalid email provider configuration")

	// ErrMissingRecipient indicates the notification carries no address the
	// channel can deliver to.
	ErrMissingRecipient = errors.New("notification has no recipient address")
)
