package roster

import "errors"

// Sentinel kinds for roster cache errors.
var (
	ErrNotReady      = errors.New("roster cache not ready")
	ErrUnknownPlayer = errors.New("unknown player")
)
