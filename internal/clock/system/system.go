// Package system provides the wall clock used to time traced computations.
package system

import "time"

// Clock satisfies prime.Clock and bubblesort.Clock using time.Now.
type Clock struct{}

// New creates a new Clock.
func New() *Clock {
	return &Clock{}
}

// Now returns the current time. The monotonic reading is kept so elapsed
// durations are immune to wall-clock jumps.
func (Clock) Now() time.Time {
	return time.Now()
}
