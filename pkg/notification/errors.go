package notification

import "errors"

var (
	// ErrMissingID is returned when a notification has no id.
	ErrMissingID = errors.New("notification: missing id")

	// ErrMissingUser is returned when a notification has no target user.
	ErrMissingUser = errors.New("notification: missing user id")

	// ErrUnknownType is returned for a type outside the closed enumeration.
	ErrUnknownType = errors.New("notification: unknown type")

	// ErrInvalidExpiry is returned when expires_at is not after created_at.
	ErrInvalidExpiry = errors.New("notification: expiry must be after creation time")

	// ErrTerminalStatus is returned when a notification in a final status is
	// submitted for delivery again.
	ErrTerminalStatus = errors.New("notification: status is terminal")

	// ErrBatchFull is returned when adding to a batch that reached its size cap.
	ErrBatchFull = errors.New("notification: batch is full")

	// ErrBatchMismatch is returned when a notification is incompatible with a batch.
	ErrBatchMismatch = errors.New("notification: notification does not belong to this batch")
)
