package app

import "errors"

// Sentinel kinds for service errors.
var (
	ErrUnknownEventType = errors.New("unknown event type")
)
