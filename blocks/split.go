package blocks

import "github.com/signalsfoundry/aim-sim/core"

// Split is Combine's inverse: it ejects a container agent to slot 0 and
// each of its ChildrenAgents to slot 1, then clears ChildrenAgents, per
// spec §4.3. If any child is rejected, the whole split is rolled back —
// no partial progress.
//
// Rollback is exact for children already accepted by a slot-1 target that
// implements core.Revocable (Queue and Sink in this package both do, since
// their Take is nothing more than an append). Children already accepted by
// a slot-1 target that does not implement core.Revocable, or whose Revoke
// does not find them, stay with that target: the rejecting error is
// returned unchanged, and the split is then only partly undone.
type Split struct {
	core.BaseBlock
}

// NewSplit constructs a Split block.
func NewSplit(id string) *Split {
	return &Split{BaseBlock: core.NewBaseBlock(id)}
}

// ConnectContainer wires the output that receives the emptied container.
func (s *Split) ConnectContainer(next core.Block) { s.Connect(next, 0) }

// ConnectChildren wires the output that receives each child agent.
func (s *Split) ConnectChildren(next core.Block) { s.Connect(next, 1) }

func (s *Split) Take(agent *core.Agent) error {
	containerOut, childOut := s.OutputAt(0), s.OutputAt(1)
	if containerOut == nil || childOut == nil {
		return core.Misconfigured(s.ID(), "Split requires both the container output (slot 0) and children output (slot 1) connected")
	}

	children := append([]*core.Agent(nil), agent.ChildrenAgents...)
	pushed := make([]*core.Agent, 0, len(children))
	for _, child := range children {
		child.ParentAgents = append(child.ParentAgents, agent)
		if err := childOut.Take(child); err != nil {
			unlinkParent(children, agent)
			rollback(pushed, childOut)
			return err
		}
		pushed = append(pushed, child)
	}

	agent.ChildrenAgents = nil
	if err := containerOut.Take(agent); err != nil {
		agent.ChildrenAgents = children
		unlinkParent(children, agent)
		rollback(pushed, childOut)
		return err
	}
	return nil
}

// Tick is a no-op: Split never holds an agent past its Take call.
func (s *Split) Tick(tick int64) error { return nil }

// unlinkParent strips the last ParentAgents entry (always container, just
// appended this Take call) from every child being rolled back.
func unlinkParent(children []*core.Agent, container *core.Agent) {
	for _, child := range children {
		n := len(child.ParentAgents)
		if n > 0 && child.ParentAgents[n-1] == container {
			child.ParentAgents = child.ParentAgents[:n-1]
		}
	}
}

func rollback(pushed []*core.Agent, target core.Block) {
	revocable, ok := target.(core.Revocable)
	if !ok {
		return
	}
	for _, agent := range pushed {
		revocable.Revoke(agent)
	}
}
