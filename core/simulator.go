package core

import (
	"context"
	"fmt"
	"math/rand"
	"time"
)

// Phase names the five steps of the tick loop from spec §4.1, passed to
// SimulatorHooks.BeginPhase so a caller can label per-phase instrumentation
// without this package depending on a tracing library.
type Phase string

const (
	PhaseScheduledCallbacks Phase = "scheduled-callbacks"
	PhaseSpaceUpdate        Phase = "space-update"
	PhaseEventDelivery      Phase = "event-delivery"
	PhaseBlockTick          Phase = "block-tick"
	PhaseBufferRotate       Phase = "buffer-rotate"
)

// SimulatorHooks lets a caller observe tick execution without Simulator
// importing a metrics or tracing library directly — the teacher's
// SimulationEngine.RegisterTickListener does the same thing with a plain
// slice of func(int); this generalizes it to a start/end pair per tick and
// per phase so both metrics (duration) and tracing (span nesting) can be
// driven from the same hook set.
type SimulatorHooks struct {
	// BeginTick runs before phase 1 and returns the context threaded through
	// the rest of the tick (e.g. one carrying a tracing span).
	BeginTick func(ctx context.Context, tick int64) context.Context
	// EndTick runs after the tick completes, successfully or not.
	EndTick func(ctx context.Context, tick int64, dur time.Duration, err error)
	// BeginPhase runs at the start of each phase and returns a function
	// invoked at the phase's end. A nil return skips phase instrumentation.
	BeginPhase func(ctx context.Context, phase Phase) func()
}

func (h SimulatorHooks) beginPhase(ctx context.Context, phase Phase) func() {
	if h.BeginPhase == nil {
		return func() {}
	}
	if end := h.BeginPhase(ctx, phase); end != nil {
		return end
	}
	return func() {}
}

// Simulator is the central controller from spec §2/§4.1: it owns the
// block registry, spaces, event bus, scheduler, a single RNG, and the
// current tick, and drives the five-phase tick loop.
//
// Grounded on the teacher's simulation_engine.go lifecycle shape (a small
// owning struct with a Run loop over injected collaborators), adapted from
// its single real-time step to spec.md's fixed five-phase discrete tick.
type Simulator struct {
	Rng *rand.Rand

	blocks []Block
	spaces []SpaceManager
	bus    *EventBus
	sched  *Scheduler

	tick     int64
	maxTicks int64

	Hooks SimulatorHooks
}

// NewSimulator constructs a Simulator that will run ticks [0, maxTicks).
// seed drives the single process-wide RNG spec §5 requires — no component
// may consult an independent RNG.
func NewSimulator(maxTicks int64, seed int64) *Simulator {
	return &Simulator{
		Rng:      rand.New(rand.NewSource(seed)),
		bus:      NewEventBus(),
		sched:    NewScheduler(),
		maxTicks: maxTicks,
	}
}

// AddBlock registers a block. Iteration order for phase 4 (and for event
// collection) is registration order, per spec §3's "weak references ...
// iteration order = registration order".
func (s *Simulator) AddBlock(b Block) { s.blocks = append(s.blocks, b) }

// AddSpace registers a SpaceManager to be advanced during phase 2 of every
// tick.
func (s *Simulator) AddSpace(sp SpaceManager) { s.spaces = append(s.spaces, sp) }

// Blocks returns a defensive copy of the registered blocks, in registration
// order. Used by callers that drive per-block observability (held-agent
// gauges, sink counters) from outside this package.
func (s *Simulator) Blocks() []Block {
	out := make([]Block, len(s.blocks))
	copy(out, s.blocks)
	return out
}

// Spaces returns a defensive copy of the registered SpaceManagers, in
// registration order. Used by callers that drive per-entity observability
// (conveyor occupancy gauges) from outside this package.
func (s *Simulator) Spaces() []SpaceManager {
	out := make([]SpaceManager, len(s.spaces))
	copy(out, s.spaces)
	return out
}

// Tick returns the tick currently executing (or about to execute, before
// Run is called).
func (s *Simulator) Tick() int64 { return s.tick }

// MaxTicks returns the configured tick ceiling.
func (s *Simulator) MaxTicks() int64 { return s.maxTicks }

// Subscribe registers agent to receive event by exact string match;
// delegates to the bus.
func (s *Simulator) Subscribe(agent *Agent, event string) { s.bus.Subscribe(agent, event) }

// Schedule queues fn to run at s.tick+delayTicks. See Scheduler.Schedule
// for the invariants enforced on delayTicks/period.
func (s *Simulator) Schedule(fn Callback, delayTicks int64, recurring bool, period int64) string {
	return s.sched.Schedule(s.tick, fn, delayTicks, recurring, period)
}

// CancelSchedule cancels a previously scheduled callback by id.
func (s *Simulator) CancelSchedule(id string) { s.sched.Cancel(id) }

// SetSchedulerHooks installs hooks on the underlying Scheduler so a caller
// can observe callback firings and reschedules without this package
// importing a metrics library directly, mirroring Hooks above.
func (s *Simulator) SetSchedulerHooks(h SchedulerHooks) { s.sched.Hooks = h }

// PendingCallbacks returns the number of callbacks currently queued on the
// underlying Scheduler.
func (s *Simulator) PendingCallbacks() int { return s.sched.PendingCount() }

// Stop halts the run after the in-flight tick finishes, per spec §9's
// "only cancellation is the whole simulation halting" and the original's
// stop() — clamping maxTicks to the tick currently executing.
func (s *Simulator) Stop() { s.maxTicks = s.tick }

// Run executes ticks 0..maxTicks-1 in the fixed phase order from spec
// §4.1. It returns the first MisconfigurationError or InvariantViolationError
// encountered (wrapped with the tick number), ctx.Err() if ctx is
// cancelled between ticks, or nil on normal completion.
//
// InvariantViolationError is raised internally via panic (see
// core/errors.go) — Run recovers it at the tick boundary and returns it as
// an ordinary error, so callers never need a recover of their own.
func (s *Simulator) Run(ctx context.Context) error {
	for s.tick = 0; s.tick < s.maxTicks; s.tick++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := s.runTick(ctx, s.tick); err != nil {
			return fmt.Errorf("tick %d: %w", s.tick, err)
		}
	}
	return nil
}

func (s *Simulator) runTick(ctx context.Context, tick int64) (err error) {
	if s.Hooks.BeginTick != nil {
		ctx = s.Hooks.BeginTick(ctx, tick)
	}
	start := time.Now()
	defer func() {
		if s.Hooks.EndTick != nil {
			s.Hooks.EndTick(ctx, tick, time.Since(start), err)
		}
	}()
	defer func() {
		if r := recover(); r != nil {
			if iv, ok := r.(*InvariantViolationError); ok {
				err = iv
				return
			}
			panic(r)
		}
	}()

	// Phase 1: fire due scheduled callbacks.
	end := s.Hooks.beginPhase(ctx, PhaseScheduledCallbacks)
	s.sched.RunDue(tick)
	end()

	// Phase 2: advance spaces.
	end = s.Hooks.beginPhase(ctx, PhaseSpaceUpdate)
	for _, sp := range s.spaces {
		sp.Update(1)
	}
	end()

	// Phase 3: deliver events staged by the previous tick's rotate.
	end = s.Hooks.beginPhase(ctx, PhaseEventDelivery)
	s.bus.deliver()
	end()

	// Phase 4: tick blocks in registration order.
	end = s.Hooks.beginPhase(ctx, PhaseBlockTick)
	for _, b := range s.blocks {
		if tickErr := b.Tick(tick); tickErr != nil {
			end()
			return tickErr
		}
	}
	end()

	// Phase 5: collect this tick's emissions and rotate the buffer so they
	// become deliverable at phase 3 of tick+1.
	end = s.Hooks.beginPhase(ctx, PhaseBufferRotate)
	for _, b := range s.blocks {
		for _, agent := range b.Agents() {
			s.bus.collect(agent.drainEmitted())
		}
	}
	s.bus.rotate()
	end()

	return nil
}
