// Package signals defines the contract for loading raw per-player
// component values from external data providers.
package signals

import (
	"context"
	"fmt"
	"time"

	"github.com/fantasyforge/forge/internal/domain/model"
)

// Value is a loaded component score. Present is false when the provider
// has no value for the player-week; absence is explicit, never zero.
type Value struct {
	Score   float64
	Present bool
}

// Some returns a present value.
func Some(score float64) Value { return Value{Score: score, Present: true} }

// None returns an explicit absence marker.
func None() Value { return Value{} }

// Loader supplies the five raw component values, each normalized to
// 0-100 or absent. Implementations wrap external sports-data providers.
type Loader interface {
	Usage(ctx context.Context, playerID string, season, week int) (Value, error)
	Talent(ctx context.Context, playerID string, season, week int) (Value, error)
	Environment(ctx context.Context, playerID string, season, week int) (Value, error)
	Availability(ctx context.Context, playerID string, season, week int) (Value, error)
	Market(ctx context.Context, playerID string, season, week int) (Value, error)
}

// LoadAll fetches all five components for a player-week. Each call
// carries its own bounded timeout so one stalled provider cannot hang a
// whole drain cycle; the first error aborts the load and falls into the
// caller's per-player isolation boundary.
func LoadAll(ctx context.Context, l Loader, playerID string, season, week int, timeout time.Duration) (map[model.Component]float64, error) {
	type loadFunc func(ctx context.Context, playerID string, season, week int) (Value, error)

	loaders := map[model.Component]loadFunc{
		model.ComponentUsage:        l.Usage,
		model.ComponentTalent:       l.Talent,
		model.ComponentEnvironment:  l.Environment,
		model.ComponentAvailability: l.Availability,
		model.ComponentMarket:       l.Market,
	}

	out := make(map[model.Component]float64, len(loaders))
	for _, comp := range model.Components() {
		v, err := loadWithTimeout(ctx, loaders[comp], playerID, season, week, timeout)
		if err != nil {
			return nil, fmt.Errorf("load %s for %s: %w", comp, playerID, err)
		}
		if v.Present {
			out[comp] = v.Score
		}
	}
	return out, nil
}

func loadWithTimeout(ctx context.Context, load func(ctx context.Context, playerID string, season, week int) (Value, error), playerID string, season, week int, timeout time.Duration) (Value, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return load(ctx, playerID, season, week)
}
