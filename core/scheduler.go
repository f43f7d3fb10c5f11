package core

import (
	"fmt"
	"sort"
)

// Callback is a scheduled function. It receives the tick at which it fires.
type Callback func(tick int64)

type scheduledCallback struct {
	id          string
	dueTick     int64
	seq         uint64
	fn          Callback
	recurring   bool
	period      int64
	cancelled   bool
	scheduledAt int64
}

// SchedulerHooks lets a caller observe scheduler activity without this
// package importing a metrics library, mirroring SimulatorHooks.
type SchedulerHooks struct {
	// OnFired runs once per non-cancelled callback actually invoked,
	// receiving how many ticks elapsed between scheduling (or the previous
	// firing, for a recurring callback) and this firing.
	OnFired func(leadTicks int64)
	// OnRescheduled runs once per recurring callback re-inserted after
	// firing.
	OnRescheduled func()
}

// Scheduler is the priority queue of (due_tick, seq, callback, recurring?,
// period) entries from spec §3/§4.1. Ordering is (due_tick, seq) so that
// callbacks scheduled for the same tick fire in insertion order under a
// fixed RNG seed, making two runs with identical scenarios deterministic.
//
// Grounded on the teacher's internal/sbi/scheduler.go eventScheduler: a
// slice kept sorted by due time via sort.Search binary-search insertion,
// with lazy cancellation. Adapted from wall-clock time.Time keys to
// integer tick keys, and the mutex is dropped — the engine is
// single-threaded within a tick (spec §5).
type Scheduler struct {
	counter uint64
	events  []*scheduledCallback // sorted by (dueTick, seq)
	index   map[string]*scheduledCallback

	Hooks SchedulerHooks
}

// NewScheduler constructs an empty scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{index: make(map[string]*scheduledCallback)}
}

// Schedule registers fn to run at currentTick+delayTicks. delayTicks must
// be >= 0; recurring callbacks must have period >= 1 — both are invariants
// per spec §3, violated calls panic rather than returning an error, since
// they indicate a caller bug rather than a runtime condition.
func (s *Scheduler) Schedule(currentTick int64, fn Callback, delayTicks int64, recurring bool, period int64) string {
	if delayTicks < 0 {
		panicInvariant("schedule: delayTicks must be >= 0, got %d", delayTicks)
	}
	if recurring && period < 1 {
		panicInvariant("schedule: recurring callback requires period >= 1, got %d", period)
	}
	s.counter++
	ev := &scheduledCallback{
		id:          fmt.Sprintf("cb-%d", s.counter),
		dueTick:     currentTick + delayTicks,
		seq:         s.counter,
		fn:          fn,
		recurring:   recurring,
		period:      period,
		scheduledAt: currentTick,
	}
	s.insert(ev)
	s.index[ev.id] = ev
	return ev.id
}

// PendingCount returns the number of callbacks currently queued, whether or
// not they have been cancelled (a cancelled entry is only dropped from the
// queue once RunDue sweeps past its due tick).
func (s *Scheduler) PendingCount() int { return len(s.events) }

func (s *Scheduler) insert(ev *scheduledCallback) {
	idx := sort.Search(len(s.events), func(i int) bool {
		if s.events[i].dueTick != ev.dueTick {
			return s.events[i].dueTick > ev.dueTick
		}
		return s.events[i].seq > ev.seq
	})
	s.events = append(s.events, nil)
	copy(s.events[idx+1:], s.events[idx:])
	s.events[idx] = ev
}

// Cancel marks a scheduled callback as cancelled. It is a no-op if id is
// unknown or the callback already fired.
func (s *Scheduler) Cancel(id string) {
	ev, ok := s.index[id]
	if !ok {
		return
	}
	ev.cancelled = true
	delete(s.index, id)
}

// RunDue executes, in (due_tick, seq) order, every non-cancelled callback
// whose due_tick <= tick, then advances recurring callbacks by period.
// Callbacks scheduled during this call (e.g. a callback that itself calls
// Schedule) are appended after the currently-due prefix and are not fired
// in this pass, even if their due_tick <= tick — spec §4.1 step 1 requires
// them to wait for the next tick at the earliest.
func (s *Scheduler) RunDue(tick int64) {
	due := 0
	for due < len(s.events) && s.events[due].dueTick <= tick {
		due++
	}
	firing := s.events[:due]
	s.events = s.events[due:]

	var reschedule []*scheduledCallback
	for _, ev := range firing {
		delete(s.index, ev.id)
		if ev.cancelled {
			continue
		}
		ev.fn(tick)
		if s.Hooks.OnFired != nil {
			s.Hooks.OnFired(tick - ev.scheduledAt)
		}
		if ev.recurring {
			reschedule = append(reschedule, ev)
		}
	}
	for _, ev := range reschedule {
		s.counter++
		next := &scheduledCallback{
			id:          fmt.Sprintf("cb-%d", s.counter),
			dueTick:     ev.dueTick + ev.period,
			seq:         s.counter,
			fn:          ev.fn,
			recurring:   true,
			period:      ev.period,
			scheduledAt: tick,
		}
		s.insert(next)
		s.index[next.id] = next
		if s.Hooks.OnRescheduled != nil {
			s.Hooks.OnRescheduled()
		}
	}
}
