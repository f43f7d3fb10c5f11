package blocks

import "github.com/signalsfoundry/aim-sim/core"

// RestrictedAreaStart admits agents into a bounded zone, buffering any
// that arrive while the zone is at capacity. It must be bound to exactly
// one RestrictedAreaEnd via SetEnd before its Tick can release anyone,
// per spec §4.3.
type RestrictedAreaStart struct {
	core.BaseBlock

	maxAgents int
	active    int
	end       *RestrictedAreaEnd
}

// NewRestrictedAreaStart constructs a Start admitting at most maxAgents
// agents into the zone at once.
func NewRestrictedAreaStart(id string, maxAgents int) (*RestrictedAreaStart, error) {
	if maxAgents < 1 {
		return nil, core.Misconfigured(id, "max_agents must be >= 1, got %d", maxAgents)
	}
	return &RestrictedAreaStart{BaseBlock: core.NewBaseBlock(id), maxAgents: maxAgents}, nil
}

// SetEnd binds this Start to its paired End. Fatal if already bound.
func (s *RestrictedAreaStart) SetEnd(end *RestrictedAreaEnd) error {
	if s.end != nil {
		return core.Misconfigured(s.ID(), "end block already set")
	}
	s.end = end
	end.start = s
	return nil
}

func (s *RestrictedAreaStart) Take(agent *core.Agent) error {
	s.Admit(agent)
	return nil
}

// Tick admits waiting agents into the zone while active < max_agents. The
// active counter increments only once the downstream handoff actually
// succeeds — unlike the reference it's grounded on, a rejected handoff
// never inflates the counter past the true occupancy, which keeps the
// active_agents <= max_agents invariant honest under backpressure.
func (s *RestrictedAreaStart) Tick(tick int64) error {
	if s.end == nil {
		return core.Misconfigured(s.ID(), "RestrictedAreaStart has no paired End bound via SetEnd")
	}
	out := s.OutputAt(0)
	for s.Size() > 0 && s.active < s.maxAgents {
		agent := s.Held()[0]
		ejected, err := s.TryEject(agent, out)
		if err != nil {
			return err
		}
		if !ejected {
			break
		}
		s.active++
	}
	return nil
}

func (s *RestrictedAreaStart) decrementActive() {
	if s.active > 0 {
		s.active--
	}
}

// Size returns the number of agents waiting to enter the zone.
func (s *RestrictedAreaStart) Size() int { return s.BaseBlock.Size() }

// ActiveAgents returns the number of agents currently inside the zone.
func (s *RestrictedAreaStart) ActiveAgents() int { return s.active }

// RestrictedAreaEnd marks the exit of a bounded zone, freeing a slot on
// its paired Start only once the handoff past End actually succeeds.
type RestrictedAreaEnd struct {
	core.BaseBlock

	start *RestrictedAreaStart
}

// NewRestrictedAreaEnd constructs an End. Call RestrictedAreaStart.SetEnd
// to bind the pair.
func NewRestrictedAreaEnd(id string) *RestrictedAreaEnd {
	return &RestrictedAreaEnd{BaseBlock: core.NewBaseBlock(id)}
}

// Take forwards agent immediately to End's sole output; it holds nothing.
// The paired Start's active counter is decremented only after that
// handoff succeeds, so a rejected exit leaves the zone's occupancy
// unchanged rather than prematurely freeing a slot.
func (e *RestrictedAreaEnd) Take(agent *core.Agent) error {
	if e.start == nil {
		return core.Misconfigured(e.ID(), "RestrictedAreaEnd is not bound to a Start (call Start.SetEnd)")
	}
	out := e.OutputAt(0)
	if out == nil {
		return core.Misconfigured(e.ID(), "RestrictedAreaEnd has no output connected")
	}
	if err := out.Take(agent); err != nil {
		return err
	}
	e.start.decrementActive()
	return nil
}

// Tick is a no-op: End never holds an agent past its Take call.
func (e *RestrictedAreaEnd) Tick(tick int64) error { return nil }
