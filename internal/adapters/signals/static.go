package signals

import (
	"context"
	"sync"

	"github.com/fantasyforge/forge/internal/domain/model"
)

// signalKey identifies one stored component value.
type signalKey struct {
	playerID string
	season   int
	week     int
	comp     model.Component
}

// StaticLoader implements Loader from an in-memory table. Used for
// local runs and tests in place of a live provider adapter.
type StaticLoader struct {
	mu     sync.RWMutex
	values map[signalKey]Value
}

// NewStaticLoader creates an empty static loader.
func NewStaticLoader() *StaticLoader {
	return &StaticLoader{
		values: map[signalKey]Value{},
	}
}

// Set stores a component value for a player-week.
func (l *StaticLoader) Set(playerID string, season, week int, comp model.Component, score float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.values[signalKey{playerID, season, week, comp}] = Some(score)
}

// SetAbsent stores an explicit absence for a player-week component.
func (l *StaticLoader) SetAbsent(playerID string, season, week int, comp model.Component) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.values[signalKey{playerID, season, week, comp}] = None()
}

func (l *StaticLoader) get(ctx context.Context, playerID string, season, week int, comp model.Component) (Value, error) {
	if err := ctx.Err(); err != nil {
		return Value{}, err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	v, ok := l.values[signalKey{playerID, season, week, comp}]
	if !ok {
		return None(), nil
	}
	return v, nil
}

func (l *StaticLoader) Usage(ctx context.Context, playerID string, season, week int) (Value, error) {
	return l.get(ctx, playerID, season, week, model.ComponentUsage)
}

func (l *StaticLoader) Talent(ctx context.Context, playerID string, season, week int) (Value, error) {
	return l.get(ctx, playerID, season, week, model.ComponentTalent)
}

func (l *StaticLoader) Environment(ctx context.Context, playerID string, season, week int) (Value, error) {
	return l.get(ctx, playerID, season, week, model.ComponentEnvironment)
}

func (l *StaticLoader) Availability(ctx context.Context, playerID string, season, week int) (Value, error) {
	return l.get(ctx, playerID, season, week, model.ComponentAvailability)
}

func (l *StaticLoader) Market(ctx context.Context, playerID string, season, week int) (Value, error) {
	return l.get(ctx, playerID, season, week, model.ComponentMarket)
}
