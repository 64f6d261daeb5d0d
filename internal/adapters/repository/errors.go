package repository

import "errors"

// Sentinel kinds for repository errors.
var (
	ErrRecordNotFound = errors.New("player-week record not found")
	ErrEventNotFound  = errors.New("event not found")
	ErrEventExists    = errors.New("event already appended")
	ErrEventTerminal  = errors.New("event already processed")
	ErrBoardNotFound  = errors.New("ranking board not found")
	ErrInvalidBoard   = errors.New("invalid ranking board")
)
