// Package smoothing blends freshly computed component values with their
// history using per-component exponential decay.
package smoothing

import (
	"math"

	"github.com/fantasyforge/forge/internal/domain/model"
)

// Defaults used when a component has no configured half-life.
const (
	defaultHalfLifeWeeks = 2.0
	defaultMaxDelta      = 15.0
)

// Option applies a configuration option to the Smoother.
type Option func(*Smoother)

// WithHalfLives sets per-component half-lives in weeks. Fast-moving
// usage signals use a short half-life; slower talent signals a longer one.
func WithHalfLives(halfLives map[model.Component]float64) Option {
	return func(s *Smoother) {
		s.halfLife = make(map[model.Component]float64, len(halfLives))
		for comp, hl := range halfLives {
			if hl > 0 {
				s.halfLife[comp] = hl
			}
		}
	}
}

// WithMaxWeeklyDelta caps |new - previous| when no bypass applies.
func WithMaxWeeklyDelta(delta float64) Option {
	return func(s *Smoother) {
		if delta > 0 {
			s.maxDelta = delta
		}
	}
}

// Smoother computes temporally smoothed component values.
type Smoother struct {
	halfLife map[model.Component]float64
	maxDelta float64
}

// New creates a Smoother with configuration options.
func New(opts ...Option) *Smoother {
	s := &Smoother{
		halfLife: map[model.Component]float64{
			model.ComponentUsage:        1.5,
			model.ComponentTalent:       3.0,
			model.ComponentEnvironment:  2.0,
			model.ComponentAvailability: 1.0,
			model.ComponentMarket:       2.0,
		},
		maxDelta: defaultMaxDelta,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Decay returns the decay factor 0.5^(1/halfLife) for a component.
func (s *Smoother) Decay(comp model.Component) float64 {
	hl, ok := s.halfLife[comp]
	if !ok {
		hl = defaultHalfLifeWeeks
	}
	return math.Pow(0.5, 1.0/hl)
}

// MaxWeeklyDelta returns the configured weekly movement cap.
func (s *Smoother) MaxWeeklyDelta() float64 {
	return s.maxDelta
}

// Smooth blends raw with the previous period's smoothed value and caps
// the weekly movement. When bypass is set, or when there is no previous
// value, the freshly computed raw value is used verbatim; this is what
// lets the system react immediately to discrete real-world events
// instead of lagging behind a multi-week average.
func (s *Smoother) Smooth(comp model.Component, previous float64, hasPrevious bool, raw float64, bypass bool) float64 {
	if bypass || !hasPrevious {
		return raw
	}

	decay := s.Decay(comp)
	blended := previous*decay + raw*(1.0-decay)

	if blended > previous+s.maxDelta {
		return previous + s.maxDelta
	}
	if blended < previous-s.maxDelta {
		return previous - s.maxDelta
	}
	return blended
}
