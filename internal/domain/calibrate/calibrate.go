// Package calibrate rebases raw composite scores onto a position-comparable
// scale using percentile anchors. Raw distributions differ by position, so
// anchoring re-bases every position onto one interpretable band while
// preserving within-position ordering.
package calibrate

import "fmt"

// Calibrated output band.
const (
	Floor = 25.0
	Ceil  = 95.0
)

// Anchors holds a position's percentile breakpoints over its historical
// raw-score distribution.
type Anchors struct {
	P10 float64
	P25 float64
	P50 float64
	P75 float64
	P90 float64
}

// DefaultAnchors covers positions with no historical distribution yet.
func DefaultAnchors() Anchors {
	return Anchors{P10: 20, P25: 35, P50: 50, P75: 65, P90: 80}
}

// Validate checks that the breakpoints are non-decreasing and that the
// interpolation span is non-degenerate.
func (a Anchors) Validate() error {
	points := []float64{a.P10, a.P25, a.P50, a.P75, a.P90}
	for i := 1; i < len(points); i++ {
		if points[i] < points[i-1] {
			return fmt.Errorf("%w: breakpoints must be non-decreasing", ErrInvalidAnchors)
		}
	}
	if a.P90 <= a.P10 {
		return fmt.Errorf("%w: p90 must exceed p10", ErrInvalidAnchors)
	}
	return nil
}

// Score maps a raw (or context-adjusted) score onto the calibrated band:
// at or below p10 maps to the floor, at or above p90 to the ceiling, and
// anything between interpolates linearly. Monotonic non-decreasing in raw.
func Score(raw float64, a Anchors) float64 {
	if raw <= a.P10 {
		return Floor
	}
	if raw >= a.P90 {
		return Ceil
	}
	span := a.P90 - a.P10
	return Floor + (raw-a.P10)/span*(Ceil-Floor)
}
