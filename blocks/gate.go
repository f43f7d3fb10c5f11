package blocks

import "github.com/signalsfoundry/aim-sim/core"

// GateState is the open/closed state of a Gate.
type GateState string

const (
	GateOpen   GateState = "open"
	GateClosed GateState = "closed"
)

// GateReleaseMode controls how many agents a Gate ejects per tick while
// open.
type GateReleaseMode string

const (
	// ReleaseOne ejects at most one agent per tick — the spec's default.
	ReleaseOne GateReleaseMode = "one"
	// ReleaseAll drains the waiting list until the first rejection.
	ReleaseAll GateReleaseMode = "all"
)

// Gate accumulates agents while closed and releases them, one at a time or
// all at once, while open, per spec §4.3.
type Gate struct {
	core.BaseBlock

	state       GateState
	releaseMode GateReleaseMode
}

// NewGate constructs a Gate. Per spec §9's resolved ambiguity, releaseMode
// defaults to "one" when empty; "all" must be requested explicitly.
func NewGate(id string, initialState GateState, releaseMode GateReleaseMode) (*Gate, error) {
	if initialState != GateOpen && initialState != GateClosed {
		return nil, core.Misconfigured(id, "initial_state must be %q or %q, got %q", GateOpen, GateClosed, initialState)
	}
	if releaseMode == "" {
		releaseMode = ReleaseOne
	}
	if releaseMode != ReleaseOne && releaseMode != ReleaseAll {
		return nil, core.Misconfigured(id, "release_mode must be %q or %q, got %q", ReleaseOne, ReleaseAll, releaseMode)
	}
	return &Gate{BaseBlock: core.NewBaseBlock(id), state: initialState, releaseMode: releaseMode}, nil
}

func (g *Gate) Take(agent *core.Agent) error {
	g.Admit(agent)
	return nil
}

func (g *Gate) Tick(tick int64) error {
	if g.state != GateOpen {
		return nil
	}
	out := g.OutputAt(0)
	if g.releaseMode == ReleaseAll {
		return g.DrainFIFO(out)
	}
	return g.EjectOne(out)
}

// Toggle flips open<->closed.
func (g *Gate) Toggle() {
	if g.state == GateOpen {
		g.state = GateClosed
	} else {
		g.state = GateOpen
	}
}

// Open sets the gate to open.
func (g *Gate) Open() { g.state = GateOpen }

// Close sets the gate to closed.
func (g *Gate) Close() { g.state = GateClosed }

// State returns the current open/closed state.
func (g *Gate) State() GateState { return g.state }

// Size returns the number of agents currently waiting at the gate.
func (g *Gate) Size() int { return g.BaseBlock.Size() }
