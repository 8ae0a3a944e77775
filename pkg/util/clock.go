package util

import "github.com/jonboulle/clockwork"

var clock = clockwork.NewRealClock()

// SetClock swaps the package clock. Passing nil restores the real clock.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}

// Clock returns the package clock.
func Clock() clockwork.Clock {
	return clock
}
