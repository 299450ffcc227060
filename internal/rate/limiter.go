// Package rate decides whether decoded records are forwarded to their
// sinks. Two interchangeable policies exist: a pass-all counter that admits
// everything, and a wall-clock pacer that blocks until the next sample slot
// so the output rate tracks real time rather than input volume.
package rate

import (
	"time"

	"oem719parse/internal/oem719"
)

// Limiter is the admission-control seam between decoding and routing.
type Limiter interface {
	// Admit reports whether a decoded record of the given type should be
	// forwarded. Implementations may block the caller.
	Admit(t oem719.MessageType) bool
	// Count returns the number of records admitted for t.
	Count(t oem719.MessageType) int
	// Reset clears all per-type state.
	Reset()
}

// Sleeper abstracts blocking waits so tests can fake them.
type Sleeper interface {
	Sleep(d time.Duration)
}

type realSleeper struct{}

func (realSleeper) Sleep(d time.Duration) { time.Sleep(d) }

// PassAll admits every record while keeping per-type seen/admitted counters
// for observability.
type PassAll struct {
	seen     map[oem719.MessageType]int
	admitted map[oem719.MessageType]int
}

func NewPassAll() *PassAll {
	return &PassAll{
		seen:     make(map[oem719.MessageType]int),
		admitted: make(map[oem719.MessageType]int),
	}
}

func (p *PassAll) Admit(t oem719.MessageType) bool {
	p.seen[t]++
	p.admitted[t]++
	return true
}

func (p *PassAll) Count(t oem719.MessageType) int { return p.admitted[t] }

func (p *PassAll) Reset() {
	p.seen = make(map[oem719.MessageType]int)
	p.admitted = make(map[oem719.MessageType]int)
}

// Pacer admits every record but sleeps the caller until the next sample
// slot, set by a fixed interval of 1/frequency. The very first record is
// admitted immediately. The slot clock is global, not per-type.
type Pacer struct {
	interval time.Duration
	sleeper  Sleeper
	now      func() time.Time

	last     time.Time
	seen     map[oem719.MessageType]int
	admitted map[oem719.MessageType]int
}

func NewPacer(frequencyHz float64) *Pacer {
	if frequencyHz <= 0 {
		frequencyHz = 1
	}
	return &Pacer{
		interval: time.Duration(float64(time.Second) / frequencyHz),
		sleeper:  realSleeper{},
		now:      time.Now,
		seen:     make(map[oem719.MessageType]int),
		admitted: make(map[oem719.MessageType]int),
	}
}

func (p *Pacer) Admit(t oem719.MessageType) bool {
	p.seen[t]++
	if p.last.IsZero() {
		p.last = p.now()
		p.admitted[t]++
		return true
	}
	if wait := p.interval - p.now().Sub(p.last); wait > 0 {
		p.sleeper.Sleep(wait)
	}
	p.last = p.now()
	p.admitted[t]++
	return true
}

func (p *Pacer) Count(t oem719.MessageType) int { return p.admitted[t] }

func (p *Pacer) Reset() {
	p.last = time.Time{}
	p.seen = make(map[oem719.MessageType]int)
	p.admitted = make(map[oem719.MessageType]int)
}
