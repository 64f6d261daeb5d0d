// Package modifier applies multiplicative context adjustments to a raw
// alpha score. Environment and matchup stages share one parameterized
// implementation so their clamp bands cannot diverge.
package modifier

import "math"

// Score bands. The working corridor bounds each stage's output so that
// chained adjustments stay in a realistic range; the public band is the
// contract at the compose boundary.
const (
	NeutralScore  = 50.0
	corridorFloor = 25.0
	corridorCeil  = 90.0
	publicFloor   = 0.0
	publicCeil    = 100.0
)

// Kind tags which adjustment stage is being applied.
type Kind string

// Adjustment stages, applied in this order.
const (
	KindEnvironment Kind = "environment"
	KindMatchup     Kind = "matchup"
)

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithSensitivity sets the sensitivity weight for a stage.
func WithSensitivity(kind Kind, weight float64) Option {
	return func(e *Engine) {
		if weight >= 0 {
			e.sensitivity[kind] = weight
		}
	}
}

// Engine applies environment and matchup adjustments to alpha scores.
type Engine struct {
	sensitivity map[Kind]float64
}

// New creates an Engine with configuration options.
func New(opts ...Option) *Engine {
	e := &Engine{
		sensitivity: map[Kind]float64{
			KindEnvironment: 0.30,
			KindMatchup:     0.25,
		},
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Multiplier returns the stage multiplier for a context score. A nil
// score or a score of exactly NeutralScore yields 1 (identity).
func (e *Engine) Multiplier(kind Kind, score *float64) float64 {
	if score == nil || *score == NeutralScore {
		return 1.0
	}
	delta := (*score - NeutralScore) / NeutralScore
	return 1.0 + delta*e.sensitivity[kind]
}

// Apply runs one adjustment stage on alpha. Identity stages (nil score
// or exactly neutral) return alpha untouched; any other stage output is
// clamped into the working corridor so extreme or out-of-domain inputs
// cannot drift the chain outside a realistic range.
func (e *Engine) Apply(kind Kind, alpha float64, score *float64) float64 {
	m := e.Multiplier(kind, score)
	if m == 1.0 {
		return alpha
	}
	return clamp(alpha*m, corridorFloor, corridorCeil)
}

// Effect reports the per-stage multipliers and their product.
type Effect struct {
	Environment float64 `json:"environment"`
	Matchup     float64 `json:"matchup"`
	Combined    float64 `json:"combined"`
}

// CombinedEffect computes the environment multiplier, the matchup
// multiplier, and their product for the given context scores.
func (e *Engine) CombinedEffect(envScore, matchupScore *float64) Effect {
	env := e.Multiplier(KindEnvironment, envScore)
	matchup := e.Multiplier(KindMatchup, matchupScore)
	return Effect{
		Environment: env,
		Matchup:     matchup,
		Combined:    env * matchup,
	}
}

// ApplyForgeModifiers runs the environment stage and then the matchup
// stage on the already-adjusted value. When both context scores are nil
// the raw alpha is returned unchanged; otherwise the result is finite
// and inside the public [0,100] band.
func (e *Engine) ApplyForgeModifiers(rawAlpha float64, envScore, matchupScore *float64) float64 {
	if envScore == nil && matchupScore == nil {
		return rawAlpha
	}

	adjusted := e.Apply(KindEnvironment, rawAlpha, envScore)
	adjusted = e.Apply(KindMatchup, adjusted, matchupScore)

	return clamp(adjusted, publicFloor, publicCeil)
}

// Label buckets for human-readable context summaries.
const (
	LabelUnknown      = "unknown"
	LabelPoor         = "poor"
	LabelBelowAverage = "below-average"
	LabelNeutral      = "neutral"
	LabelFavorable    = "favorable"
	LabelElite        = "elite"
)

// Label maps a context score to a human-readable bucket. A nil score
// maps to the unknown bucket.
func Label(score *float64) string {
	if score == nil {
		return LabelUnknown
	}
	switch s := *score; {
	case s < 20:
		return LabelPoor
	case s < 40:
		return LabelBelowAverage
	case s < 60:
		return LabelNeutral
	case s < 80:
		return LabelFavorable
	default:
		return LabelElite
	}
}

func clamp(v, floor, ceil float64) float64 {
	if math.IsNaN(v) {
		return floor
	}
	return math.Max(floor, math.Min(ceil, v))
}
