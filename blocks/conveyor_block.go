package blocks

import "github.com/signalsfoundry/aim-sim/core"

// ConveyorBlock is the block-graph face of a spatial transit: Take hands
// the agent to a SpaceManager for pathfinding and collision checking
// instead of buffering it locally, and Tick harvests agents whose
// movement has completed, per spec §4.3/§4.5.
//
// Unlike every other canonical block, a successfully admitted agent is not
// added to BaseBlock's held list — ownership passes to the space (see
// core.Agent.EnterSpace), so ConveyorBlock tracks in-transit agents in its
// own list and overrides Agents() to report them.
type ConveyorBlock struct {
	core.BaseBlock
	space       core.SpaceManager
	startEntity string
	endEntity   string

	inTransit       []*core.Agent
	enteredThisTick bool
}

// NewConveyorBlock constructs a ConveyorBlock that registers agents on
// space for the path from startEntity to endEntity.
func NewConveyorBlock(id string, space core.SpaceManager, startEntity, endEntity string) (*ConveyorBlock, error) {
	if startEntity == "" || endEntity == "" {
		return nil, core.Misconfigured(id, "conveyor block requires non-empty start and end entity IDs")
	}
	return &ConveyorBlock{
		BaseBlock:   core.NewBaseBlock(id),
		space:       space,
		startEntity: startEntity,
		endEntity:   endEntity,
	}, nil
}

// Take registers agent for transit. At most one agent may enter per tick,
// per spec §4.5's single-entry-point rule; a second arrival in the same
// tick is a Rejection, not fatal, so the upstream block retries it next
// tick. A start or end entity that the space reports as unregistered is a
// Misconfiguration. Any other Register failure (unreachable path or entry
// collision) is a Rejection.
func (c *ConveyorBlock) Take(agent *core.Agent) error {
	if c.enteredThisTick {
		return core.Reject(c.ID(), "conveyor already accepted an agent this tick")
	}
	if reg, ok := c.space.(interface{ IsEntityRegistered(string) bool }); ok {
		for _, id := range []string{c.startEntity, c.endEntity} {
			if !reg.IsEntityRegistered(id) {
				return core.Misconfigured(c.ID(), "entity %s is not registered on the space", id)
			}
		}
	}
	if !c.space.Register(agent, c.startEntity, c.endEntity) {
		return core.Reject(c.ID(), "no path from %s to %s, or entry collision", c.startEntity, c.endEntity)
	}
	c.enteredThisTick = true
	c.inTransit = append(c.inTransit, agent)
	return nil
}

// Tick resets the per-tick entry gate and attempts to hand off any agent
// whose movement has completed to the wired output. Space custody is
// provisionally dropped before the offer: out.Take funnels a canonical
// block's Admit into agent.enterBlock, which would otherwise trip its own
// invariant against the agent still being held by a space. A rejection
// restores space custody without touching the space's transit/occupancy
// bookkeeping, so the agent keeps its progress and stays in transit (at
// progress 1) for a retry next tick.
func (c *ConveyorBlock) Tick(tick int64) error {
	c.enteredThisTick = false

	out := c.OutputAt(0)
	remaining := make([]*core.Agent, 0, len(c.inTransit))
	for _, agent := range c.inTransit {
		if !c.space.IsMovementComplete(agent) {
			remaining = append(remaining, agent)
			continue
		}
		if out == nil {
			return core.Misconfigured(c.ID(), "conveyor exit unwired")
		}
		agent.LeaveSpace()
		if err := out.Take(agent); err != nil {
			agent.EnterSpace()
			if core.IsRejection(err) {
				remaining = append(remaining, agent)
				continue
			}
			return err
		}
		c.space.Unregister(agent)
	}
	c.inTransit = remaining
	return nil
}

// Agents reports the agents currently in transit, overriding BaseBlock's
// held-list view since ConveyorBlock never admits into it.
func (c *ConveyorBlock) Agents() []*core.Agent {
	out := make([]*core.Agent, len(c.inTransit))
	copy(out, c.inTransit)
	return out
}

// InTransitCount returns the number of agents currently mid-transit.
func (c *ConveyorBlock) InTransitCount() int { return len(c.inTransit) }
