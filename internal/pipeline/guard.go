package pipeline

import "time"

// DurationGuard is a one-shot stopwatch bounding how long the pipeline may
// run. It is armed on the first processed line and never reset mid-run.
type DurationGuard struct {
	max   time.Duration
	start time.Time
	now   func() time.Time
}

func NewDurationGuard(max time.Duration) *DurationGuard {
	return &DurationGuard{max: max, now: time.Now}
}

// Start records the current instant. Intended to be called exactly once.
func (g *DurationGuard) Start() {
	g.start = g.now()
}

func (g *DurationGuard) Started() bool {
	return !g.start.IsZero()
}

// HasExpired reports whether the elapsed time has reached the budget.
// Always false before Start.
func (g *DurationGuard) HasExpired() bool {
	if g.start.IsZero() {
		return false
	}
	return g.now().Sub(g.start) >= g.max
}

// ElapsedSeconds returns seconds since Start, or 0 if never started.
func (g *DurationGuard) ElapsedSeconds() float64 {
	if g.start.IsZero() {
		return 0
	}
	return g.now().Sub(g.start).Seconds()
}

// RemainingSeconds returns seconds left in the budget, clamped at zero.
// Before Start it returns the full budget.
func (g *DurationGuard) RemainingSeconds() float64 {
	if g.start.IsZero() {
		return g.max.Seconds()
	}
	rem := (g.max - g.now().Sub(g.start)).Seconds()
	if rem < 0 {
		return 0
	}
	return rem
}
