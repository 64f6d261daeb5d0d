package orchestrator

import "time"

// Clock abstracts time for the drain loop so tests can advance it
// deterministically instead of waiting on a real timer.
type Clock interface {
	Now() time.Time
	// After returns a channel that fires once d has elapsed. The wait
	// between drains is the loop's only suspension point.
	After(d time.Duration) <-chan time.Time
}

// realClock implements Clock with the system timer.
type realClock struct{}

// NewRealClock returns a Clock backed by the system timer.
func NewRealClock() Clock { return realClock{} }

func (realClock) Now() time.Time                         { return time.Now() }
func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }
