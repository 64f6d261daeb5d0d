package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fantasyforge/forge/internal/adapters/repository"
	"github.com/fantasyforge/forge/internal/adapters/signals"
	"github.com/fantasyforge/forge/internal/domain/calibrate"
	"github.com/fantasyforge/forge/internal/domain/model"
	"github.com/fantasyforge/forge/internal/domain/modifier"
	"github.com/fantasyforge/forge/internal/domain/scoring"
	"github.com/fantasyforge/forge/internal/domain/smoothing"
)

// defaultSignalTimeout bounds each external signal-load call.
const defaultSignalTimeout = 2 * time.Second

// Recomputer runs the full scoring pipeline for one player-week:
// signal load, temporal smoothing, composite, context modifiers,
// percentile calibration, and the record upsert.
type Recomputer struct {
	loader   signals.Loader
	records  repository.PlayerWeekStore
	contexts repository.ContextStore
	anchors  repository.AnchorStore

	calc     *scoring.Calculator
	mod      *modifier.Engine
	smoother *smoothing.Smoother

	signalTimeout time.Duration
}

// RecomputerOption applies a configuration option to the Recomputer.
type RecomputerOption func(*Recomputer)

// WithSignalTimeout bounds each signal-load call.
func WithSignalTimeout(d time.Duration) RecomputerOption {
	return func(r *Recomputer) {
		if d > 0 {
			r.signalTimeout = d
		}
	}
}

// NewRecomputer creates a Recomputer.
func NewRecomputer(
	loader signals.Loader,
	records repository.PlayerWeekStore,
	contexts repository.ContextStore,
	anchors repository.AnchorStore,
	calc *scoring.Calculator,
	mod *modifier.Engine,
	smoother *smoothing.Smoother,
	opts ...RecomputerOption,
) *Recomputer {
	r := &Recomputer{
		loader:        loader,
		records:       records,
		contexts:      contexts,
		anchors:       anchors,
		calc:          calc,
		mod:           mod,
		smoother:      smoother,
		signalTimeout: defaultSignalTimeout,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Recompute reloads fresh component inputs for the player, smooths them
// against the prior week, recomputes the composite, applies context
// modifiers and calibration, and upserts the player-week record tagged
// with the given bypass flags. An empty flag list takes the normal
// smoothing path; event-driven recomputes pass the flag derived from
// the event type, which makes the fresh values land verbatim.
func (r *Recomputer) Recompute(ctx context.Context, player model.Player, season, week int, flags []model.BypassFlag) error {
	raw, err := signals.LoadAll(ctx, r.loader, player.PlayerID, season, week, r.signalTimeout)
	if err != nil {
		return fmt.Errorf("signal load: %w", err)
	}

	smoothed := r.smooth(ctx, player, season, week, raw, len(flags) > 0)

	rec := model.PlayerWeekRecord{
		PlayerID:    player.PlayerID,
		Season:      season,
		Week:        week,
		Position:    player.Position,
		TeamID:      player.TeamID,
		Components:  smoothed,
		BypassFlags: flags,
	}

	res, err := r.calc.Compute(player.Position, smoothed)
	if errors.Is(err, scoring.ErrInsufficientData) {
		// No fabricated score: persist the exclusion so readers can
		// render "insufficient data" and ranking skips the player.
		rec.InsufficientData = true
		rec.Confidence = 0
		return r.records.Upsert(ctx, rec)
	}
	if err != nil {
		return fmt.Errorf("composite: %w", err)
	}

	adjusted := r.mod.ApplyForgeModifiers(res.RawScore, r.environmentScore(ctx, player), r.matchupScore(ctx, player, season, week))

	rec.Confidence = res.Confidence
	rec.PowerScore = calibrate.Score(adjusted, r.anchors.Anchors(ctx, player.Position))

	return r.records.Upsert(ctx, rec)
}

// smooth blends each present raw component with the prior week's
// smoothed value. Bypass skips both the decay blend and the delta cap.
func (r *Recomputer) smooth(ctx context.Context, player model.Player, season, week int, raw map[model.Component]float64, bypass bool) map[model.Component]float64 {
	var prevComponents map[model.Component]float64
	if prev, err := r.records.Get(ctx, player.PlayerID, season, week-1); err == nil && !prev.InsufficientData {
		prevComponents = prev.Components
	}

	out := make(map[model.Component]float64, len(raw))
	for comp, value := range raw {
		prevValue, hasPrev := prevComponents[comp]
		out[comp] = r.smoother.Smooth(comp, prevValue, hasPrev, value, bypass)
	}
	return out
}

// environmentScore returns the player's team environment score, nil for null.
func (r *Recomputer) environmentScore(ctx context.Context, player model.Player) *float64 {
	if player.TeamID == "" {
		return nil
	}
	score, ok := r.contexts.Environment(ctx, player.TeamID)
	if !ok {
		return nil
	}
	return &score
}

// matchupScore resolves the week's opponent and returns the positional
// matchup score, nil for null or when no opponent is scheduled.
func (r *Recomputer) matchupScore(ctx context.Context, player model.Player, season, week int) *float64 {
	if player.TeamID == "" {
		return nil
	}
	opponent, ok := r.contexts.Opponent(ctx, season, week, player.TeamID)
	if !ok {
		return nil
	}
	score, ok := r.contexts.Matchup(ctx, player.TeamID, opponent, player.Position)
	if !ok {
		return nil
	}
	return &score
}
