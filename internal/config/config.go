// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Every recognized key is an explicit struct field with a default.
// - Validation happens once at load, not at each call site.
package config

import (
	"fmt"
	"math"
	"runtime"
)

// weightSumTolerance bounds float drift when checking that weights sum to 1.
const weightSumTolerance = 1e-6

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// Season and Week select the active scoring period.
	Season int `koanf:"season"`
	Week   int `koanf:"week"`

	// BaseWeights maps component names to base composite weights.
	// Weights must sum to 1.0.
	BaseWeights map[string]float64 `koanf:"base_weights"`

	// PositionWeightOverrides replaces a subset of base weights per
	// position; the remaining mass is redistributed proportionally.
	PositionWeightOverrides map[string]map[string]float64 `koanf:"position_weight_overrides"`

	// EnvironmentSensitivity and MatchupSensitivity scale the
	// multiplicative context adjustments.
	EnvironmentSensitivity float64 `koanf:"environment_sensitivity"`
	MatchupSensitivity     float64 `koanf:"matchup_sensitivity"`

	// HalfLifeWeeks maps component names to smoothing half-lives.
	HalfLifeWeeks map[string]float64 `koanf:"half_life_weeks"`

	// MaxWeeklyDelta caps how far a smoothed component may move in one
	// week when no bypass flag is present.
	MaxWeeklyDelta float64 `koanf:"max_weekly_delta"`

	// MinConfidence is the threshold for treating a player as an
	// established role.
	MinConfidence float64 `koanf:"min_confidence"`

	// DrainIntervalSeconds sets the orchestrator poll interval.
	DrainIntervalSeconds int `koanf:"drain_interval_seconds"`

	// RecomputeParallelism bounds concurrent per-player recomputes
	// within one event drain.
	RecomputeParallelism int `koanf:"recompute_parallelism"`

	// SignalTimeoutMS bounds each external signal-load call.
	SignalTimeoutMS int `koanf:"signal_timeout_ms"`

	// DedupeSize sets the size of the event-id deduplication cache.
	DedupeSize int `koanf:"dedupe_size"`

	// MaxBoardLimit caps GET /rankings?limit.
	MaxBoardLimit int `koanf:"max_board_limit"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel: "info",
		Addr:     ":9090",
		Season:   2025,
		Week:     1,
		BaseWeights: map[string]float64{
			"usage":        0.30,
			"talent":       0.25,
			"environment":  0.20,
			"availability": 0.15,
			"market":       0.10,
		},
		PositionWeightOverrides: map[string]map[string]float64{
			// Quarterback output is driven more by talent than touches.
			"QB": {"talent": 0.35, "usage": 0.20},
			// Tight-end value tracks usage share closely.
			"TE": {"usage": 0.40},
		},
		EnvironmentSensitivity: 0.30,
		MatchupSensitivity:     0.25,
		HalfLifeWeeks: map[string]float64{
			"usage":        1.5,
			"talent":       3.0,
			"environment":  2.0,
			"availability": 1.0,
			"market":       2.0,
		},
		MaxWeeklyDelta:       15.0,
		MinConfidence:        0.4,
		DrainIntervalSeconds: 60,
		RecomputeParallelism: runtime.NumCPU(),
		SignalTimeoutMS:      2000,
		DedupeSize:           100_000,
		MaxBoardLimit:        200,
	}
}

// Validate checks the configuration once at startup.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if c.Season <= 0 || c.Week <= 0 {
		return fmt.Errorf("%w: season and week must be positive", ErrInvalidConfig)
	}

	sum := 0.0
	for name, w := range c.BaseWeights {
		if w < 0 {
			return fmt.Errorf("%w: negative base weight for %q", ErrInvalidConfig, name)
		}
		sum += w
	}
	if math.Abs(sum-1.0) > weightSumTolerance {
		return fmt.Errorf("%w: base weights sum to %.6f, want 1.0", ErrInvalidConfig, sum)
	}

	for pos, overrides := range c.PositionWeightOverrides {
		for name, w := range overrides {
			if _, ok := c.BaseWeights[name]; !ok {
				return fmt.Errorf("%w: override for unknown component %q (position %s)", ErrInvalidConfig, name, pos)
			}
			if w < 0 || w > 1 {
				return fmt.Errorf("%w: override weight %.3f for %q out of [0,1] (position %s)", ErrInvalidConfig, w, name, pos)
			}
		}
	}

	if c.EnvironmentSensitivity < 0 || c.EnvironmentSensitivity > 1 {
		return fmt.Errorf("%w: environment_sensitivity out of [0,1]", ErrInvalidConfig)
	}
	if c.MatchupSensitivity < 0 || c.MatchupSensitivity > 1 {
		return fmt.Errorf("%w: matchup_sensitivity out of [0,1]", ErrInvalidConfig)
	}

	for name, hl := range c.HalfLifeWeeks {
		if hl <= 0 {
			return fmt.Errorf("%w: half life for %q must be positive", ErrInvalidConfig, name)
		}
	}
	if c.MaxWeeklyDelta <= 0 {
		return fmt.Errorf("%w: max_weekly_delta must be positive", ErrInvalidConfig)
	}
	if c.MinConfidence < 0 || c.MinConfidence > 1 {
		return fmt.Errorf("%w: min_confidence out of [0,1]", ErrInvalidConfig)
	}
	if c.DrainIntervalSeconds <= 0 {
		return fmt.Errorf("%w: drain_interval_seconds must be positive", ErrInvalidConfig)
	}
	if c.RecomputeParallelism < 1 {
		return fmt.Errorf("%w: recompute_parallelism must be at least 1", ErrInvalidConfig)
	}
	if c.SignalTimeoutMS <= 0 {
		return fmt.Errorf("%w: signal_timeout_ms must be positive", ErrInvalidConfig)
	}
	if c.MaxBoardLimit < 1 {
		return fmt.Errorf("%w: max_board_limit must be at least 1", ErrInvalidConfig)
	}
	return nil
}
