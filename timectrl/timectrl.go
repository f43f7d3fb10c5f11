// Package timectrl paces playback of a running Simulator against wall-clock
// time, for CLI demos and visualizers that want to watch a run unfold at a
// fixed or accelerated rate rather than as fast as the tick loop can go.
package timectrl

import (
	"sync"
	"time"
)

// SimClock lets pacing-dependent code (a demo UI, a replay driver) depend on
// a clock abstraction rather than the concrete Pacer type.
type SimClock interface {
	// Now returns the current paced time.
	Now() time.Time
	// After returns a channel that receives the current paced time once d
	// has elapsed on this clock.
	After(d time.Duration) <-chan time.Time
}

// Mode labels how a Pacer is used. Start does not consult it: in either
// mode the paced clock advances by TickInterval once per TickInterval of
// wall-clock time.
type Mode int

const (
	// RealTime: playback matches wall-clock time.
	RealTime Mode = iota
	// Accelerated is recorded on the Pacer like RealTime; Start paces it
	// the same way.
	Accelerated
)

// Pacer drives the wall-clock side of tick playback: it advances a paced
// clock and notifies listeners (typically a UI redraw or a log line per
// tick) without touching Simulator's own tick counter, which remains the
// sole source of truth for simulation state.
type Pacer struct {
	mu           sync.RWMutex
	StartTime    time.Time
	TickInterval time.Duration
	Mode         Mode

	currentTime time.Time

	listeners []func(time.Time)
}

// NewPacer constructs a Pacer starting at start, advancing by tickInterval
// per simulation tick in the given mode.
func NewPacer(start time.Time, tickInterval time.Duration, mode Mode) *Pacer {
	return &Pacer{
		StartTime:    start,
		TickInterval: tickInterval,
		Mode:         mode,
		currentTime:  start,
	}
}

// Now returns the current paced time. Implements SimClock.
func (p *Pacer) Now() time.Time {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.currentTime
}

// SetTime forces the paced clock to t, bypassing the ticker. Used by tests
// and by replay drivers that seek to a specific tick.
func (p *Pacer) SetTime(t time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.currentTime = t
}

// After satisfies SimClock's method set but arms no timer: d is ignored
// and the returned channel never receives a value. Nothing in this package
// reads from it.
func (p *Pacer) After(d time.Duration) <-chan time.Time {
	ch := make(chan time.Time, 1)
	return ch
}

// AddListener registers a callback invoked once per paced tick, receiving
// the new paced time. Typically used to drive a UI redraw in lockstep with
// Simulator.Tick.
func (p *Pacer) AddListener(fn func(time.Time)) {
	p.listeners = append(p.listeners, fn)
}

// Start runs the pacer for the given wall-clock duration in a separate
// goroutine, advancing the paced clock by TickInterval on every tick of an
// internal ticker and firing listeners in registration order. It returns a
// channel closed when the run completes. With a duration of 0 the
// goroutine never returns and the channel is never closed.
func (p *Pacer) Start(duration time.Duration) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)

		p.mu.Lock()
		paced := p.StartTime
		p.currentTime = paced
		p.mu.Unlock()

		elapsed := time.Duration(0)

		ticker := time.NewTicker(p.TickInterval)
		defer ticker.Stop()

		for {
			if duration > 0 && elapsed >= duration {
				return
			}

			<-ticker.C
			paced = paced.Add(p.TickInterval)
			elapsed += p.TickInterval

			p.mu.Lock()
			p.currentTime = paced
			p.mu.Unlock()

			for _, fn := range p.listeners {
				fn(paced)
			}
		}
	}()
	return done
}
