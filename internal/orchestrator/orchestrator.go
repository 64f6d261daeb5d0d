// Package orchestrator drains the event log, resolves which players an
// event affects, and triggers targeted recomputation and board rebuilds.
package orchestrator

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/fantasyforge/forge/internal/adapters/cache"
	"github.com/fantasyforge/forge/internal/adapters/repository"
	"github.com/fantasyforge/forge/internal/domain/model"
	"github.com/fantasyforge/forge/pkg/logger"
	"github.com/fantasyforge/forge/pkg/metrics"
)

// Default orchestrator configuration constants.
const (
	defaultDrainInterval = 60 * time.Second
	defaultParallelism   = 4
)

// RosterSource resolves event scopes to players.
type RosterSource interface {
	Player(ctx context.Context, playerID string) (model.Player, error)
	TeamRoster(ctx context.Context, teamID string) ([]model.Player, error)
}

// PlayerRecomputer recomputes one player's record during a drain.
type PlayerRecomputer interface {
	Recompute(ctx context.Context, player model.Player, season, week int, flags []model.BypassFlag) error
}

// BoardRebuilder rebuilds all ranking boards after a drain cycle.
type BoardRebuilder interface {
	RebuildAll(ctx context.Context, season, week int) error
}

// Option applies a configuration option to the Orchestrator.
type Option func(*Orchestrator)

// WithClock sets the clock driving the drain loop.
func WithClock(c Clock) Option {
	return func(o *Orchestrator) {
		if c != nil {
			o.clock = c
		}
	}
}

// WithDrainInterval sets the poll interval between drains.
func WithDrainInterval(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.interval = d
		}
	}
}

// WithParallelism bounds concurrent per-player recomputes in one drain.
func WithParallelism(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.parallelism = n
		}
	}
}

// WithLogger sets a custom logger for the orchestrator.
func WithLogger(log logger.Logger) Option {
	return func(o *Orchestrator) {
		if log != nil {
			o.logger = log
		}
	}
}

// Orchestrator is the single writer of player-week records and ranking
// entries. Drains are sequential between poll intervals; a cycle always
// runs to completion.
type Orchestrator struct {
	events      repository.EventLog
	roster      RosterSource
	recomputer  PlayerRecomputer
	rankings    BoardRebuilder
	invalidator cache.Invalidator

	clock       Clock
	interval    time.Duration
	parallelism int
	season      int
	week        int

	stopCh chan struct{}
	done   chan struct{}
	cycles atomic.Int64

	logger logger.Logger
}

// New creates an Orchestrator for the active (season, week).
func New(
	events repository.EventLog,
	roster RosterSource,
	recomputer PlayerRecomputer,
	rankings BoardRebuilder,
	invalidator cache.Invalidator,
	season, week int,
	opts ...Option,
) *Orchestrator {
	o := &Orchestrator{
		events:      events,
		roster:      roster,
		recomputer:  recomputer,
		rankings:    rankings,
		invalidator: invalidator,
		clock:       NewRealClock(),
		interval:    defaultDrainInterval,
		parallelism: defaultParallelism,
		season:      season,
		week:        week,
		stopCh:      make(chan struct{}),
		done:        make(chan struct{}),
		logger:      logger.Get().Named("orchestrator"),
	}

	for _, opt := range opts {
		opt(o)
	}

	return o
}

// Run executes drain cycles until ctx is canceled or Stop is called.
// Waiting on the clock between drains is the only suspension point.
func (o *Orchestrator) Run(ctx context.Context) {
	defer close(o.done)

	for {
		o.DrainOnce(ctx)

		select {
		case <-ctx.Done():
			return
		case <-o.stopCh:
			return
		case <-o.clock.After(o.interval):
		}
	}
}

// Stop signals the loop to exit after the current cycle and waits for it.
func (o *Orchestrator) Stop() {
	select {
	case <-o.stopCh:
	default:
		close(o.stopCh)
	}
	<-o.done
}

// DrainOnce pulls all currently unprocessed events and handles each.
// After a cycle with at least one processed event it rebuilds the
// ranking boards and fires the cache invalidation signal.
func (o *Orchestrator) DrainOnce(ctx context.Context) int {
	start := o.clock.Now()
	o.cycles.Add(1)
	defer func() {
		metrics.RecordDrainCycleDuration(o.clock.Now().Sub(start).Seconds())
		metrics.UpdateUnprocessedEvents(o.events.UnprocessedCount(ctx))
	}()

	events, err := o.events.Unprocessed(ctx)
	if err != nil {
		o.logger.Error(ctx, "listing unprocessed events failed", logger.Error(err))
		return 0
	}

	processed := 0
	for _, event := range events {
		if err := o.events.MarkProcessing(ctx, event.ID); err != nil {
			// Already claimed or terminal; redelivery is a no-op.
			continue
		}

		o.processEvent(ctx, event)

		// Marked processed even when per-player recomputes failed:
		// at-most-once, a missed recompute self-heals on the next
		// naturally scheduled cycle.
		if err := o.events.MarkProcessed(ctx, event.ID); err != nil {
			o.logger.Error(ctx, "marking event processed failed",
				logger.String("eventID", event.ID),
				logger.Error(err),
			)
			continue
		}
		metrics.RecordEventProcessed()
		processed++
	}

	if processed > 0 {
		if err := o.rankings.RebuildAll(ctx, o.season, o.week); err != nil {
			o.logger.Warn(ctx, "ranking rebuild reported failures", logger.Error(err))
		}
		if err := o.invalidator.Invalidate(ctx, cache.KeyPattern(o.season, o.week)); err != nil {
			o.logger.Warn(ctx, "cache invalidation failed", logger.Error(err))
		}
	}

	return processed
}

// Cycles returns the number of drain cycles run so far.
func (o *Orchestrator) Cycles() int64 {
	return o.cycles.Load()
}

// processEvent resolves the event scope and recomputes every affected
// player. Failures stay isolated per player.
func (o *Orchestrator) processEvent(ctx context.Context, event model.Event) {
	if !event.Scope.Valid() {
		metrics.RecordEventInvalidScope()
		o.logger.Warn(ctx, "event has no valid scope; dropping",
			logger.String("eventID", event.ID),
			logger.String("type", string(event.Type)),
		)
		return
	}

	players, err := o.resolveScope(ctx, event.Scope)
	if err != nil {
		metrics.RecordRecomputeFailure()
		o.logger.Warn(ctx, "scope resolution failed; will self-heal next cycle",
			logger.String("eventID", event.ID),
			logger.Error(err),
		)
		return
	}

	flags := []model.BypassFlag{event.Type.Flag()}

	// Each player's record is an independent key, so recompute work
	// parallelizes safely inside the per-player isolation boundary.
	var g errgroup.Group
	g.SetLimit(o.parallelism)
	for _, player := range players {
		player := player
		g.Go(func() error {
			if err := o.recomputer.Recompute(ctx, player, o.season, o.week, flags); err != nil {
				metrics.RecordRecomputeFailure()
				o.logger.Error(ctx, "player recompute failed",
					logger.String("eventID", event.ID),
					logger.String("playerID", player.PlayerID),
					logger.Error(err),
				)
				// Never propagated: remaining players and events continue.
				return nil
			}
			return nil
		})
	}
	_ = g.Wait()

	metrics.RecordPlayersRecomputed(len(players))
	o.logger.Debug(ctx, "event recompute finished",
		logger.String("eventID", event.ID),
		logger.Int("players", len(players)),
	)
}

// resolveScope maps a scope to the affected players: a player scope
// affects exactly that player, a team scope every player currently
// rostered to the team.
func (o *Orchestrator) resolveScope(ctx context.Context, scope model.Scope) ([]model.Player, error) {
	if scope.PlayerScoped() {
		player, err := o.roster.Player(ctx, scope.PlayerID)
		if err != nil {
			return nil, err
		}
		return []model.Player{player}, nil
	}
	return o.roster.TeamRoster(ctx, scope.TeamID)
}
