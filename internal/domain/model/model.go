// Package model contains domain models passed between layers.
package model

import "time"

// Position identifies a fantasy-relevant roster position.
type Position string

// Supported positions.
const (
	PositionQB Position = "QB"
	PositionRB Position = "RB"
	PositionWR Position = "WR"
	PositionTE Position = "TE"
)

// Positions returns all supported positions in a stable order.
func Positions() []Position {
	return []Position{PositionQB, PositionRB, PositionWR, PositionTE}
}

// Valid reports whether p is a known position.
func (p Position) Valid() bool {
	switch p {
	case PositionQB, PositionRB, PositionWR, PositionTE:
		return true
	}
	return false
}

// Component identifies one of the five raw signal inputs to the
// composite score. Each component is normalized to 0-100 by its loader.
type Component string

// The five scoring components.
const (
	ComponentUsage        Component = "usage"
	ComponentTalent       Component = "talent"
	ComponentEnvironment  Component = "environment"
	ComponentAvailability Component = "availability"
	ComponentMarket       Component = "market"
)

// Components returns all components in a stable order.
func Components() []Component {
	return []Component{
		ComponentUsage,
		ComponentTalent,
		ComponentEnvironment,
		ComponentAvailability,
		ComponentMarket,
	}
}

// BypassFlag marks a player-week record so temporal smoothing is skipped
// for that period.
type BypassFlag string

// The fixed set of bypass flags.
const (
	FlagInjuryStatusChange BypassFlag = "injury-status-change"
	FlagDepthChartChange   BypassFlag = "depth-chart-change"
	FlagQBChange           BypassFlag = "qb-change"
)

// PlayerWeekRecord holds a player's evaluated state for one week.
// Keyed by (PlayerID, Season, Week); upserted, never deleted.
type PlayerWeekRecord struct {
	PlayerID string
	Season   int
	Week     int
	Position Position
	TeamID   string

	// Components holds the smoothed component scores actually used for
	// the composite. A missing key means the signal was absent.
	Components map[Component]float64

	// BypassFlags disables smoothing for this week when non-empty.
	BypassFlags []BypassFlag

	// Confidence is the fraction of components present, in [0,1].
	Confidence float64

	// PowerScore is the calibrated composite, in [25,95] when computed.
	PowerScore float64

	// InsufficientData marks a record with no present components.
	// Such players are excluded from ranking boards.
	InsufficientData bool

	UpdatedAt time.Time
}

// HasFlag reports whether the record carries the given bypass flag.
func (r *PlayerWeekRecord) HasFlag(flag BypassFlag) bool {
	for _, f := range r.BypassFlags {
		if f == flag {
			return true
		}
	}
	return false
}

// Bypassed reports whether any bypass flag is set.
func (r *PlayerWeekRecord) Bypassed() bool {
	return len(r.BypassFlags) > 0
}

// Established reports whether the record meets the minimum-confidence
// threshold for an established role.
func (r *PlayerWeekRecord) Established(minConfidence float64) bool {
	return r.Confidence >= minConfidence
}

// Player describes a rostered player as known to the roster cache.
type Player struct {
	PlayerID string
	Name     string
	TeamID   string
	Position Position
}

// RankingType selects the overall board or a single position board.
type RankingType string

// RankingOverall is the cross-position board.
const RankingOverall RankingType = "overall"

// RankingForPosition returns the board type for a position.
func RankingForPosition(p Position) RankingType {
	return RankingType(p)
}

// RankingTypes returns the overall board plus one board per position.
func RankingTypes() []RankingType {
	types := []RankingType{RankingOverall}
	for _, p := range Positions() {
		types = append(types, RankingForPosition(p))
	}
	return types
}

// Valid reports whether t is a recognized ranking type.
func (t RankingType) Valid() bool {
	if t == RankingOverall {
		return true
	}
	return Position(t).Valid()
}

// RankingEntry is one row of a ranking board. Boards are fully replaced
// per ranking type on each rebuild.
type RankingEntry struct {
	Season     int
	Week       int
	Type       RankingType
	Rank       int
	PlayerID   string
	PowerScore float64

	// WeekDelta is the rank movement versus the previous week's board
	// (positive = climbed), when a previous entry exists.
	WeekDelta int
	HasDelta  bool
}
