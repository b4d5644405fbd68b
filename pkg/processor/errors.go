package processor

import "errors"

var (
	// ErrAlreadyRunning indicates Start was called on a running processor.
	ErrAlreadyRunning = errors.New("processor already running")

	// ErrNotRunning indicates an operation that requires a started processor.
	ErrNotRunning = errors.New("processor not running")

	// ErrMissingDispatcher indicates the processor was constructed without
	// a dispatcher.
	ErrMissingDispatcher = errors.New("dispatcher is required")

	// ErrDeliveryFailed indicates no channel accepted an immediate send.
	ErrDeliveryFailed = errors.New("delivery failed on all channels")
)
