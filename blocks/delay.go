package blocks

import "github.com/signalsfoundry/aim-sim/core"

// Delay holds each accepted agent for a fixed number of ticks (or until a
// named event arrives, when DelayTicks == -1) before ejecting it to its
// sole output, FIFO, per spec §4.3.
type Delay struct {
	core.BaseBlock

	sim          *core.Simulator
	delayTicks   int64
	releaseEvent string

	releaseTick map[*core.Agent]int64
	ready       map[*core.Agent]bool
}

// NewDelay constructs a fixed-duration Delay of delayTicks ticks.
func NewDelay(id string, sim *core.Simulator, delayTicks int64) (*Delay, error) {
	if delayTicks < 0 {
		return nil, core.Misconfigured(id, "delay_ticks must be >= 0; use NewEventDelay for event-released delays")
	}
	return &Delay{
		BaseBlock:   core.NewBaseBlock(id),
		sim:         sim,
		delayTicks:  delayTicks,
		releaseTick: make(map[*core.Agent]int64),
	}, nil
}

// NewEventDelay constructs a Delay that holds every accepted agent until it
// receives releaseEvent — the delay_ticks=-1 variant from spec §4.3.
func NewEventDelay(id string, sim *core.Simulator, releaseEvent string) (*Delay, error) {
	if releaseEvent == "" {
		return nil, core.Misconfigured(id, "event-released delay requires a non-empty release event")
	}
	return &Delay{
		BaseBlock:    core.NewBaseBlock(id),
		sim:          sim,
		delayTicks:   -1,
		releaseEvent: releaseEvent,
		ready:        make(map[*core.Agent]bool),
	}, nil
}

func (d *Delay) Take(agent *core.Agent) error {
	d.Admit(agent)
	if d.delayTicks < 0 {
		d.ready[agent] = false
		prev := agent.Hooks.OnEvent
		agent.Hooks.OnEvent = func(event string) {
			if prev != nil {
				prev(event)
			}
			if event == d.releaseEvent {
				d.ready[agent] = true
			}
		}
		d.sim.Subscribe(agent, d.releaseEvent)
		return nil
	}
	d.releaseTick[agent] = d.sim.Tick() + d.delayTicks
	return nil
}

// Tick ejects every held agent whose hold condition has been met, in FIFO
// order, stopping at the first rejection.
func (d *Delay) Tick(tick int64) error {
	out := d.OutputAt(0)
	agents := append([]*core.Agent(nil), d.Held()...)
	for _, agent := range agents {
		due := d.ready[agent]
		if d.delayTicks >= 0 {
			due = d.releaseTick[agent] <= tick
		}
		if !due {
			continue
		}
		ejected, err := d.TryEject(agent, out)
		if err != nil {
			return err
		}
		if !ejected {
			break
		}
		delete(d.releaseTick, agent)
		delete(d.ready, agent)
	}
	return nil
}

// Size returns the number of agents currently being delayed.
func (d *Delay) Size() int { return d.BaseBlock.Size() }
