// Package roster provides an explicitly owned cache of rostered players
// with a defined lifecycle, injected into consumers instead of living
// as ambient global state.
package roster

import (
	"context"
	"fmt"
	"sync"

	"github.com/fantasyforge/forge/internal/domain/model"
)

// State tracks the cache lifecycle.
type State int32

// Lifecycle states: NotLoaded -> Loading -> Ready. A failed load
// returns the cache to NotLoaded.
const (
	StateNotLoaded State = iota
	StateLoading
	StateReady
)

// String returns a readable state name.
func (s State) String() string {
	switch s {
	case StateNotLoaded:
		return "not-loaded"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	}
	return "unknown"
}

// LoadFunc supplies the full player list from an external collaborator.
type LoadFunc func(ctx context.Context) ([]model.Player, error)

// Cache indexes players by id and by team once loaded. Reads before the
// cache is ready fail with ErrNotReady so callers can fall back into
// their own isolation boundary and retry on a later cycle.
type Cache struct {
	mu     sync.RWMutex
	state  State
	byID   map[string]model.Player
	byTeam map[string][]model.Player
	load   LoadFunc
}

// New creates a Cache backed by the given loader.
func New(load LoadFunc) *Cache {
	return &Cache{
		state:  StateNotLoaded,
		byID:   map[string]model.Player{},
		byTeam: map[string][]model.Player{},
		load:   load,
	}
}

// Load populates the cache. Safe to call again to refresh; concurrent
// loads collapse into one.
func (c *Cache) Load(ctx context.Context) error {
	c.mu.Lock()
	if c.state == StateLoading {
		c.mu.Unlock()
		return nil
	}
	prev := c.state
	c.state = StateLoading
	c.mu.Unlock()

	players, err := c.load(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.state = prev
		return fmt.Errorf("roster load failed: %w", err)
	}

	byID := make(map[string]model.Player, len(players))
	byTeam := make(map[string][]model.Player)
	for _, p := range players {
		byID[p.PlayerID] = p
		if p.TeamID != "" {
			byTeam[p.TeamID] = append(byTeam[p.TeamID], p)
		}
	}
	c.byID = byID
	c.byTeam = byTeam
	c.state = StateReady
	return nil
}

// State returns the current lifecycle state.
func (c *Cache) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Player returns the player with the given id.
func (c *Cache) Player(ctx context.Context, playerID string) (model.Player, error) {
	_ = ctx

	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.state != StateReady {
		return model.Player{}, ErrNotReady
	}
	p, ok := c.byID[playerID]
	if !ok {
		return model.Player{}, fmt.Errorf("%w: %s", ErrUnknownPlayer, playerID)
	}
	return p, nil
}

// TeamRoster returns every player currently rostered to a team.
func (c *Cache) TeamRoster(ctx context.Context, teamID string) ([]model.Player, error) {
	_ = ctx

	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.state != StateReady {
		return nil, ErrNotReady
	}
	players := c.byTeam[teamID]
	out := make([]model.Player, len(players))
	copy(out, players)
	return out, nil
}

// Players returns every known player.
func (c *Cache) Players(ctx context.Context) ([]model.Player, error) {
	_ = ctx

	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.state != StateReady {
		return nil, ErrNotReady
	}
	out := make([]model.Player, 0, len(c.byID))
	for _, p := range c.byID {
		out = append(out, p)
	}
	return out, nil
}

// Count returns the number of cached players.
func (c *Cache) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.byID)
}
