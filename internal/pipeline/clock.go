package pipeline

import "github.com/jonboulle/clockwork"

// clock is the package time source for stamping evaluation and
// computation times. The envelope model itself never reads it; keeping
// the clock at the pipeline boundary is what makes the core a pure
// function. Tests freeze it via SetClock.
var clock = clockwork.NewRealClock()

// SetClock swaps the pipeline time source. Pass nil to reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}
