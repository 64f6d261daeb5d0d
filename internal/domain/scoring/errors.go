package scoring

import "errors"

// Sentinel kinds for scoring errors.
var (
	// ErrInsufficientData marks a player-week with no present components.
	ErrInsufficientData = errors.New("insufficient data")
)
