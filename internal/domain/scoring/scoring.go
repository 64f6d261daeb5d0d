// Package scoring computes the weighted composite score from raw components.
package scoring

import (
	"math"

	"github.com/fantasyforge/forge/internal/domain/model"
)

// maxScoreValue bounds the composite on the public scale.
const maxScoreValue = 100

// Option applies a configuration option to the Calculator.
type Option func(*Calculator)

// WithBaseWeights sets the base component weight table. Weights are
// expected to sum to 1.0; validation happens at config load.
func WithBaseWeights(weights map[model.Component]float64) Option {
	return func(c *Calculator) {
		if len(weights) == 0 {
			return
		}
		c.baseWeights = make(map[model.Component]float64, len(weights))
		for comp, w := range weights {
			c.baseWeights[comp] = w
		}
	}
}

// WithPositionOverrides sets per-position weight overrides. Only the
// overridden keys change; the remaining mass is redistributed
// proportionally among the non-overridden keys.
func WithPositionOverrides(overrides map[model.Position]map[model.Component]float64) Option {
	return func(c *Calculator) {
		c.overrides = make(map[model.Position]map[model.Component]float64, len(overrides))
		for pos, weights := range overrides {
			cp := make(map[model.Component]float64, len(weights))
			for comp, w := range weights {
				cp[comp] = w
			}
			c.overrides[pos] = cp
		}
	}
}

// Result contains the computed composite for a player-week.
type Result struct {
	// RawScore is the weighted composite, in [0,100] for valid inputs.
	RawScore float64

	// Confidence is the fraction of components that were present.
	Confidence float64
}

// Calculator combines weighted component scores into a single raw score.
type Calculator struct {
	baseWeights map[model.Component]float64
	overrides   map[model.Position]map[model.Component]float64
}

// New creates a Calculator with configuration options.
func New(opts ...Option) *Calculator {
	c := &Calculator{
		baseWeights: map[model.Component]float64{
			model.ComponentUsage:        0.30,
			model.ComponentTalent:       0.25,
			model.ComponentEnvironment:  0.20,
			model.ComponentAvailability: 0.15,
			model.ComponentMarket:       0.10,
		},
		overrides: map[model.Position]map[model.Component]float64{},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// WeightsFor returns the effective weight table for a position: base
// weights with the position's overrides applied and the untouched mass
// redistributed proportionally so the total still sums to 1.0.
func (c *Calculator) WeightsFor(pos model.Position) map[model.Component]float64 {
	effective := make(map[model.Component]float64, len(c.baseWeights))
	for comp, w := range c.baseWeights {
		effective[comp] = w
	}

	overrides, ok := c.overrides[pos]
	if !ok || len(overrides) == 0 {
		return effective
	}

	overriddenMass := 0.0
	remainingBase := 0.0
	for comp, w := range c.baseWeights {
		if ov, ok := overrides[comp]; ok {
			overriddenMass += ov
			effective[comp] = ov
		} else {
			remainingBase += w
		}
	}

	// Scale the non-overridden keys so the table sums to 1.0 again.
	if remainingBase > 0 {
		scale := (1.0 - overriddenMass) / remainingBase
		for comp := range effective {
			if _, ok := overrides[comp]; !ok {
				effective[comp] *= scale
			}
		}
	}

	return effective
}

// Compute produces the composite raw score for a position given the
// component scores. Absent components are dropped and the remaining
// weights renormalized. When every component is absent, the player has
// insufficient data: Compute returns ErrInsufficientData and a zero
// Result so the caller can exclude the player from ranking instead of
// assigning a fabricated score.
func (c *Calculator) Compute(pos model.Position, components map[model.Component]float64) (Result, error) {
	if len(components) == 0 {
		return Result{}, ErrInsufficientData
	}

	weights := c.WeightsFor(pos)

	presentMass := 0.0
	weightedSum := 0.0
	present := 0
	for _, comp := range model.Components() {
		score, ok := components[comp]
		if !ok {
			continue
		}
		w := weights[comp]
		presentMass += w
		weightedSum += w * score
		present++
	}

	if present == 0 || presentMass <= 0 {
		return Result{}, ErrInsufficientData
	}

	raw := weightedSum / presentMass
	raw = math.Max(0, math.Min(maxScoreValue, raw))

	return Result{
		RawScore:   raw,
		Confidence: float64(present) / float64(len(model.Components())),
	}, nil
}
