// Package ranking rebuilds the leaderboards from current player-week
// records.
package ranking

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/fantasyforge/forge/internal/domain/model"
	"github.com/fantasyforge/forge/pkg/logger"
	"github.com/fantasyforge/forge/pkg/metrics"
)

// RecordSource supplies the player-week records to rank.
type RecordSource interface {
	ListWeek(ctx context.Context, season, week int) ([]model.PlayerWeekRecord, error)
}

// BoardStore receives rebuilt boards and serves the previous week's
// board for week-over-week deltas.
type BoardStore interface {
	ReplaceBoard(ctx context.Context, season, week int, t model.RankingType, entries []model.RankingEntry) error
	Board(ctx context.Context, season, week int, t model.RankingType) ([]model.RankingEntry, error)
}

// Option applies a configuration option to the Builder.
type Option func(*Builder)

// WithLogger sets a custom logger for the builder.
func WithLogger(log logger.Logger) Option {
	return func(b *Builder) {
		if log != nil {
			b.logger = log
		}
	}
}

// Builder rebuilds ranking boards.
type Builder struct {
	records RecordSource
	boards  BoardStore
	logger  logger.Logger
}

// New creates a Builder.
func New(records RecordSource, boards BoardStore, opts ...Option) *Builder {
	b := &Builder{
		records: records,
		boards:  boards,
		logger:  logger.Get().Named("ranking"),
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// RebuildAll rebuilds every ranking type for a week. Types touch
// disjoint boards, so they rebuild concurrently; a failed type leaves
// its previous board untouched and surfaces as a cycle-level warning
// without blocking the other types.
func (b *Builder) RebuildAll(ctx context.Context, season, week int) error {
	recs, err := b.records.ListWeek(ctx, season, week)
	if err != nil {
		return fmt.Errorf("list player weeks: %w", err)
	}

	var g errgroup.Group
	for _, t := range model.RankingTypes() {
		t := t
		g.Go(func() error {
			if err := b.rebuild(ctx, season, week, t, recs); err != nil {
				metrics.RecordRankingRebuildFailure()
				b.logger.Warn(ctx, "ranking rebuild failed; previous board kept",
					logger.String("type", string(t)),
					logger.Error(err),
				)
				return fmt.Errorf("rebuild %s: %w", t, err)
			}
			metrics.RecordRankingRebuild()
			return nil
		})
	}
	return g.Wait()
}

// rebuild computes and installs one ranking type's board.
func (b *Builder) rebuild(ctx context.Context, season, week int, t model.RankingType, recs []model.PlayerWeekRecord) error {
	eligible := make([]model.PlayerWeekRecord, 0, len(recs))
	for _, rec := range recs {
		// Free agents and players without a computed score stay off
		// every board; the display layer renders "insufficient data".
		if rec.TeamID == "" || rec.InsufficientData {
			continue
		}
		if t != model.RankingOverall && rec.Position != model.Position(t) {
			continue
		}
		eligible = append(eligible, rec)
	}

	sort.Slice(eligible, func(i, j int) bool {
		if eligible[i].PowerScore != eligible[j].PowerScore {
			return eligible[i].PowerScore > eligible[j].PowerScore
		}
		// Deterministic tie-break on player identifier.
		return eligible[i].PlayerID < eligible[j].PlayerID
	})

	prevRanks := b.previousRanks(ctx, season, week, t)

	entries := make([]model.RankingEntry, len(eligible))
	for i, rec := range eligible {
		entry := model.RankingEntry{
			Season:     season,
			Week:       week,
			Type:       t,
			Rank:       i + 1,
			PlayerID:   rec.PlayerID,
			PowerScore: rec.PowerScore,
		}
		if prev, ok := prevRanks[rec.PlayerID]; ok {
			entry.WeekDelta = prev - entry.Rank
			entry.HasDelta = true
		}
		entries[i] = entry
	}

	return b.boards.ReplaceBoard(ctx, season, week, t, entries)
}

// previousRanks returns last week's rank per player, when a previous
// board exists.
func (b *Builder) previousRanks(ctx context.Context, season, week int, t model.RankingType) map[string]int {
	if week <= 1 {
		return nil
	}
	prev, err := b.boards.Board(ctx, season, week-1, t)
	if err != nil {
		return nil
	}
	ranks := make(map[string]int, len(prev))
	for _, e := range prev {
		ranks[e.PlayerID] = e.Rank
	}
	return ranks
}
