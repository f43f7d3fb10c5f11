package blocks

import "github.com/signalsfoundry/aim-sim/core"

// Combine pairs one container agent with MaxPickups pickup agents, wiring
// the pickups onto the container's ChildrenAgents/ParentAgents links and
// ejecting the container once full, per spec §4.3. Unlike most blocks, it
// is fed through two named ports rather than a single Take — connect
// upstream blocks to Container() and Pickup(), never to the Combine
// itself.
type Combine struct {
	core.BaseBlock

	maxPickups  int
	container   *core.Agent
	pickupQueue []*core.Agent

	containerPort *combinePort
	pickupPort    *combinePort
}

// NewCombine constructs a Combine accepting up to maxPickups pickups per
// container.
func NewCombine(id string, maxPickups int) (*Combine, error) {
	if maxPickups < 1 {
		return nil, core.Misconfigured(id, "max_pickups must be >= 1, got %d", maxPickups)
	}
	c := &Combine{BaseBlock: core.NewBaseBlock(id), maxPickups: maxPickups}
	c.containerPort = &combinePort{id: id + ":container", take: c.takeContainer}
	c.pickupPort = &combinePort{id: id + ":pickup", take: c.takePickup}
	return c, nil
}

// Container returns the port upstream blocks should connect to for the
// container input.
func (c *Combine) Container() core.Block { return c.containerPort }

// Pickup returns the port upstream blocks should connect to for pickup
// inputs.
func (c *Combine) Pickup() core.Block { return c.pickupPort }

// Take always fails: route into Container() or Pickup() instead.
func (c *Combine) Take(agent *core.Agent) error {
	return core.Misconfigured(c.ID(), "connect upstream blocks to Combine.Container()/Pickup(), not the block itself")
}

func (c *Combine) takeContainer(agent *core.Agent) error {
	if c.container != nil {
		return core.Reject(c.ID(), "container slot already occupied")
	}
	c.Admit(agent)
	c.container = agent
	return nil
}

func (c *Combine) takePickup(agent *core.Agent) error {
	if c.container == nil {
		if len(c.pickupQueue) >= c.maxPickups {
			return core.Reject(c.ID(), "pickup queue full")
		}
		c.Admit(agent)
		c.pickupQueue = append(c.pickupQueue, agent)
		return nil
	}
	if len(c.container.ChildrenAgents) >= c.maxPickups {
		return core.Reject(c.ID(), "container already holds max_pickups pickups")
	}
	c.Admit(agent)
	c.attach(agent)
	return nil
}

// attach links pickup onto the held container and releases the pickup's
// own block ownership. Ejecting a full container is left to Tick.
func (c *Combine) attach(pickup *core.Agent) {
	c.container.ChildrenAgents = append(c.container.ChildrenAgents, pickup)
	pickup.ParentAgents = append(pickup.ParentAgents, c.container)
	// A pickup that has joined a container is owned by the container for
	// agent-lifecycle purposes (spec §4.3) rather than independently by
	// this block, so it drops its own block ownership here.
	c.RemoveHeld(pickup)
	pickup.Release()
}

// Tick drains any queued pickups onto the held container and attempts to
// eject it once full.
func (c *Combine) Tick(tick int64) error {
	if c.container == nil {
		return nil
	}
	for len(c.pickupQueue) > 0 && len(c.container.ChildrenAgents) < c.maxPickups {
		pickup := c.pickupQueue[0]
		c.pickupQueue = c.pickupQueue[1:]
		c.attach(pickup)
	}
	if len(c.container.ChildrenAgents) < c.maxPickups {
		return nil
	}
	ejected, err := c.TryEject(c.container, c.OutputAt(0))
	if err != nil {
		return err
	}
	if ejected {
		c.container = nil
	}
	return nil
}

// ContainerHeld reports whether a container is currently accumulating
// pickups.
func (c *Combine) ContainerHeld() bool { return c.container != nil }

// PickupQueueSize returns the number of pickups waiting for a container.
func (c *Combine) PickupQueueSize() int { return len(c.pickupQueue) }

// combinePort is the Block adapter a combine's two named inputs present to
// upstream wiring, forwarding Take calls into the parent Combine's
// port-specific handler. Grounded on the original's _CombineInputPort.
type combinePort struct {
	id   string
	take func(*core.Agent) error
}

func (p *combinePort) ID() string                      { return p.id }
func (p *combinePort) Take(agent *core.Agent) error    { return p.take(agent) }
func (p *combinePort) Tick(tick int64) error           { return nil }
func (p *combinePort) Connect(next core.Block, slot int) {
	panic("combine port " + p.id + " cannot be wired as a block output")
}
func (p *combinePort) Agents() []*core.Agent { return nil }
