package blocks

import "github.com/signalsfoundry/aim-sim/core"

// ConveyorExit is a plain FIFO pass-through marking the downstream side of
// a conveyor run. It does not unregister agents from any space — by the
// time an agent reaches ConveyorExit.Take, ConveyorBlock.Tick has already
// unregistered it on the successful handoff, per spec §9's resolved
// design note on ConveyorExit's role.
type ConveyorExit struct {
	core.BaseBlock
}

// NewConveyorExit constructs an empty ConveyorExit.
func NewConveyorExit(id string) *ConveyorExit {
	return &ConveyorExit{BaseBlock: core.NewBaseBlock(id)}
}

func (e *ConveyorExit) Take(agent *core.Agent) error {
	e.Admit(agent)
	return nil
}

// Tick drains the FIFO to the wired output, stopping at the first
// rejection, mirroring Queue's release policy.
func (e *ConveyorExit) Tick(tick int64) error {
	return e.DrainFIFO(e.OutputAt(0))
}

// Size returns the number of agents currently buffered.
func (e *ConveyorExit) Size() int { return e.BaseBlock.Size() }
