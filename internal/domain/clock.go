package domain

import "github.com/jonboulle/clockwork"

// clock stamps reports. Tests freeze it via SetClock so GeneratedAt is stable.
var clock = clockwork.NewRealClock()

// SetClock swaps the report time source. Pass nil to restore the real clock.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}
