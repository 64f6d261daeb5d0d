// Package repository defines the persistence contracts for the scoring
// core and their in-memory implementations.
package repository

import (
	"context"

	"github.com/fantasyforge/forge/internal/domain/calibrate"
	"github.com/fantasyforge/forge/internal/domain/model"
)

// PlayerWeekStore holds player-week records keyed by (player, season,
// week). Records are upserted by each recompute cycle and never deleted.
type PlayerWeekStore interface {
	// Upsert creates or overwrites the record for its key.
	Upsert(ctx context.Context, rec model.PlayerWeekRecord) error

	// Get returns the record for a key, or ErrRecordNotFound.
	Get(ctx context.Context, playerID string, season, week int) (model.PlayerWeekRecord, error)

	// ListWeek returns all records for a (season, week).
	ListWeek(ctx context.Context, season, week int) ([]model.PlayerWeekRecord, error)

	// Count returns the number of stored records.
	Count(ctx context.Context) int
}

// EventLog is the append-only event store. Events are consumed exactly
// once by the orchestrator and never physically removed.
type EventLog interface {
	// Append adds a new event in the UNPROCESSED state.
	Append(ctx context.Context, e model.Event) error

	// Unprocessed returns all events still awaiting processing, oldest
	// first.
	Unprocessed(ctx context.Context) ([]model.Event, error)

	// MarkProcessing moves an event to PROCESSING. Returns
	// ErrEventTerminal for already-processed events so redelivery is a
	// no-op.
	MarkProcessing(ctx context.Context, id string) error

	// MarkProcessed moves an event to its terminal state.
	MarkProcessed(ctx context.Context, id string) error

	// UnprocessedCount returns the number of pending events.
	UnprocessedCount(ctx context.Context) int
}

// ContextStore holds the modifier context: per-team environment scores,
// per (offense, defense, position) matchup scores, and the weekly
// opponent schedule used to resolve matchups.
type ContextStore interface {
	SetEnvironment(ctx context.Context, teamID string, score float64)
	// Environment returns the team's environment score; false means null.
	Environment(ctx context.Context, teamID string) (float64, bool)

	SetMatchup(ctx context.Context, offenseTeam, defenseTeam string, pos model.Position, score float64)
	// Matchup returns the matchup score; false means null.
	Matchup(ctx context.Context, offenseTeam, defenseTeam string, pos model.Position) (float64, bool)

	SetOpponent(ctx context.Context, season, week int, teamID, opponentID string)
	// Opponent returns the team's opponent for a week, if scheduled.
	Opponent(ctx context.Context, season, week int, teamID string) (string, bool)
}

// AnchorStore holds per-position calibration anchors.
type AnchorStore interface {
	// SetAnchors installs anchors for a position after validation.
	SetAnchors(ctx context.Context, pos model.Position, a calibrate.Anchors) error

	// Anchors returns the position's anchors, falling back to defaults
	// for positions with no historical distribution yet.
	Anchors(ctx context.Context, pos model.Position) calibrate.Anchors
}

// RankingStore holds ranking boards. Each (season, week, type) board is
// fully replaced on rebuild; a failed replace leaves the previous board
// untouched.
type RankingStore interface {
	// ReplaceBoard atomically swaps in a new board for a ranking type.
	ReplaceBoard(ctx context.Context, season, week int, t model.RankingType, entries []model.RankingEntry) error

	// Board returns the current board for a key, or ErrBoardNotFound.
	Board(ctx context.Context, season, week int, t model.RankingType) ([]model.RankingEntry, error)
}
