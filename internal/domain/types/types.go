// Package types contains common read shapes shared across the application.
package types

// BoardEntry represents one row of a ranking board as exposed to readers.
type BoardEntry struct {
	Rank       int     `json:"rank"`
	PlayerID   string  `json:"player_id"`
	PowerScore float64 `json:"power_score"`
	WeekDelta  *int    `json:"week_delta,omitempty"`
}

// PlayerWeek represents a persisted player-week record as exposed to
// display/API collaborators.
type PlayerWeek struct {
	PlayerID         string             `json:"player_id"`
	Season           int                `json:"season"`
	Week             int                `json:"week"`
	Position         string             `json:"position"`
	TeamID           string             `json:"team_id"`
	Components       map[string]float64 `json:"components"`
	BypassFlags      []string           `json:"bypass_flags,omitempty"`
	Confidence       float64            `json:"confidence"`
	Established      bool               `json:"established"`
	PowerScore       float64            `json:"power_score"`
	InsufficientData bool               `json:"insufficient_data"`
}
