package model

import "time"

// EventType enumerates the discrete real-world events the core reacts to.
type EventType string

// Recognized event types.
const (
	EventInjuryStatusChange EventType = "injury-status-change"
	EventDepthChartChange   EventType = "depth-chart-change"
	EventQBChange           EventType = "qb-change"
)

// Valid reports whether t is a recognized event type.
func (t EventType) Valid() bool {
	switch t {
	case EventInjuryStatusChange, EventDepthChartChange, EventQBChange:
		return true
	}
	return false
}

// Flag returns the bypass flag a processed event of this type stamps on
// every affected player-week record.
func (t EventType) Flag() BypassFlag {
	return BypassFlag(t)
}

// EventStatus tracks an event through its state machine.
// UNPROCESSED -> PROCESSING -> PROCESSED; PROCESSED is terminal.
type EventStatus string

// Event states.
const (
	EventUnprocessed EventStatus = "unprocessed"
	EventProcessing  EventStatus = "processing"
	EventProcessed   EventStatus = "processed"
)

// Scope selects which players an event affects: a single player, or
// every player rostered to a team. A scope with neither is invalid.
type Scope struct {
	PlayerID string
	TeamID   string
}

// Valid reports whether the scope references a player or a team.
func (s Scope) Valid() bool {
	return s.PlayerID != "" || s.TeamID != ""
}

// PlayerScoped reports whether the scope targets a single player.
// Player scope takes precedence when both references are present.
func (s Scope) PlayerScoped() bool {
	return s.PlayerID != ""
}

// Event represents a discrete real-world change submitted by ingestion.
// Events are appended to a log and consumed exactly once.
type Event struct {
	ID        string
	Type      EventType
	Scope     Scope
	Status    EventStatus
	CreatedAt time.Time
}
