package term

import "time"

// DefaultRepeatThreshold is the window within which an identical keystroke
// is treated as key repeat and dropped.
const DefaultRepeatThreshold = 300 * time.Millisecond

// RepeatGate suppresses an identical key arriving within Threshold of the
// previous one. The window slides: every suppressed repeat restarts it, so a
// held key stays suppressed until it has been quiet for Threshold.
//
// The zero RepeatGate has seen no key; a Threshold of zero or less disables it.
type RepeatGate struct {
	Threshold time.Duration

	lastKey  string
	lastTime time.Time
	seen     bool
}

// NewRepeatGate returns a gate with the given threshold.
func NewRepeatGate(threshold time.Duration) RepeatGate {
	return RepeatGate{Threshold: threshold}
}

// Check decides whether key pressed at now is accepted, returning the next
// gate state alongside the decision.
func (g RepeatGate) Check(key string, now time.Time) (RepeatGate, bool) {
	if g.Threshold <= 0 {
		return g, true
	}
	if g.seen && key == g.lastKey && now.Before(g.lastTime.Add(g.Threshold)) {
		g.lastTime = now
		return g, false
	}
	g.lastKey = key
	g.lastTime = now
	g.seen = true
	return g, true
}

// Last returns the most recently accepted key and whether there is one.
func (g RepeatGate) Last() (string, bool) {
	return g.lastKey, g.seen
}
