package blocks

import "github.com/signalsfoundry/aim-sim/core"

// Condition decides which branch an agent takes through an If block.
type Condition func(agent *core.Agent) bool

// If routes each accepted agent to slot 0 when Condition returns true, or
// slot 1 otherwise. Per spec §4.3 it buffers nothing: the decision and the
// handoff both happen inside Take. Both branches must be wired — an If
// with only one output is a Misconfiguration (spec §7.2), checked eagerly
// on first use rather than waiting for the unwired branch to be chosen, so
// a scenario with a rarely-true condition doesn't mask the bug for a long
// run.
type If struct {
	core.BaseBlock

	Condition Condition
}

// NewIf constructs an If block with the given branching condition.
func NewIf(id string, condition Condition) *If {
	return &If{BaseBlock: core.NewBaseBlock(id), Condition: condition}
}

func (b *If) Take(agent *core.Agent) error {
	trueOut, falseOut := b.OutputAt(0), b.OutputAt(1)
	if trueOut == nil || falseOut == nil {
		return core.Misconfigured(b.ID(), "If block requires both branches connected (slot 0 and slot 1)")
	}
	if b.Condition(agent) {
		return trueOut.Take(agent)
	}
	return falseOut.Take(agent)
}

// Tick is a no-op: If never holds an agent past its Take call.
func (b *If) Tick(tick int64) error { return nil }

// ConnectTrue wires the condition==true branch.
func (b *If) ConnectTrue(next core.Block) { b.Connect(next, 0) }

// ConnectFalse wires the condition==false branch.
func (b *If) ConnectFalse(next core.Block) { b.Connect(next, 1) }
