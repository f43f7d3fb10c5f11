package core

// Block is the execution contract every node in the flow graph satisfies.
// Grounded on the base/override shape of the teacher's platform.Component
// hooks (core/motion.go), expressed here as an interface plus an embeddable
// BaseBlock rather than inheritance, per spec §9's design note.
type Block interface {
	ID() string
	// Take offers agent to the block. A nil return means the block now owns
	// agent. A *RejectionError means "try again next tick" — the caller
	// keeps the agent. Any other error is fatal and aborts Simulator.Run.
	Take(agent *Agent) error
	// Tick runs the block's once-per-tick behavior: attempting ejections,
	// releasing delayed agents, spawning agents, and so on.
	Tick(tick int64) error
	// Connect wires this block's output slot to next. Slot semantics are
	// block-specific; slot 0 is "first"/"only" for non-branching blocks.
	Connect(next Block, slot int)
	// Agents returns a snapshot of the agents currently held, in FIFO
	// order. Callers must not mutate the returned slice's backing state.
	Agents() []*Agent
}

// Revocable is implemented by blocks whose Take has no side effect beyond
// appending to an internal list, so a caller performing an all-or-nothing
// multi-target handoff (Split) can undo an already-accepted agent if a
// later target in the same operation rejects. Optional: Combine's input
// ports do not implement it, and ConveyorBlock inherits BaseBlock's Revoke,
// which reports false because its agents are never in the held list; a
// caller handing off to such a block gets best-effort rollback only.
type Revocable interface {
	// Revoke undoes a just-accepted Take for agent, returning it to
	// unowned. Reports false if agent was not held.
	Revoke(agent *Agent) bool
}

// BaseBlock implements the shared bookkeeping every canonical block needs:
// an id, output wiring, a FIFO-ordered held list, and the enter/exit hook
// pair from spec §4.2. Block implementations embed it and add their
// admission and ejection policy on top.
type BaseBlock struct {
	id      string
	outputs []Block
	held    []*Agent

	// OnEnter / OnExit are the user hooks from spec §4.2: OnEnter fires
	// when Admit succeeds, OnExit fires once a downstream Take has
	// accepted the agent for good — both optional.
	OnEnter func(agent *Agent)
	OnExit  func(agent *Agent)

	rejections int
}

// NewBaseBlock constructs a BaseBlock with the given id.
func NewBaseBlock(id string) BaseBlock {
	return BaseBlock{id: id}
}

func (b *BaseBlock) ID() string { return b.id }

// Connect sets the output connection at slot, growing the slice as needed.
// Slots left unset remain nil, which every default ejection path treats as
// a MisconfigurationError at first use, per spec §7.2.
func (b *BaseBlock) Connect(next Block, slot int) {
	if slot < 0 {
		panicInvariant("block %s: connect slot must be >= 0, got %d", b.id, slot)
	}
	for len(b.outputs) <= slot {
		b.outputs = append(b.outputs, nil)
	}
	b.outputs[slot] = next
}

// OutputAt returns the block wired at slot, or nil if unwired or out of
// range. Exported so block implementations outside this package can
// validate their own wiring (e.g. If requires both slot 0 and slot 1).
func (b *BaseBlock) OutputAt(slot int) Block {
	if slot < 0 || slot >= len(b.outputs) {
		return nil
	}
	return b.outputs[slot]
}

// Agents returns a defensive copy of the held list.
func (b *BaseBlock) Agents() []*Agent {
	out := make([]*Agent, len(b.held))
	copy(out, b.held)
	return out
}

// Size returns the number of agents currently held.
func (b *BaseBlock) Size() int { return len(b.held) }

// Admit appends agent to the held list, marks it owned by this block, and
// fires OnEnter. Every block implementation's Take calls this once it has
// decided to accept — it is the "accept" half of spec §4.2's take contract.
func (b *BaseBlock) Admit(agent *Agent) {
	b.held = append(b.held, agent)
	agent.enterBlock(b.id)
	if b.OnEnter != nil {
		b.OnEnter(agent)
	}
}

// RemoveHeld deletes agent from the held list. No-op if not present.
func (b *BaseBlock) RemoveHeld(agent *Agent) {
	for i, a := range b.held {
		if a == agent {
			b.held = append(b.held[:i], b.held[i+1:]...)
			return
		}
	}
}

// Revoke implements Revocable for the common case of a block whose Take is
// nothing more than Admit: it simply undoes the admission.
func (b *BaseBlock) Revoke(agent *Agent) bool {
	for _, a := range b.held {
		if a == agent {
			agent.leaveBlock()
			b.RemoveHeld(agent)
			return true
		}
	}
	return false
}

// TryEject offers agent to out. Ownership is released before the offer:
// out.Take funnels a canonical block's Admit into agent.enterBlock, which
// would otherwise trip its own invariant against the agent still being
// owned by b. On success, TryEject fires OnExit and drops agent from the
// held list, then reports ejected=true. A RejectionError from out restores
// ownership to b and is swallowed: ejected=false, err=nil, agent stays held
// for a retry on a later tick. Any other error also restores ownership and
// propagates as fatal, matching spec §7's "classes (2)-(3) abort run()".
//
// Per spec §4.2's resolved ordering, OnExit runs only after out.Take
// returns without raising, so a rejected handoff never runs OnExit twice.
func (b *BaseBlock) TryEject(agent *Agent, out Block) (ejected bool, err error) {
	if out == nil {
		return false, Misconfigured(b.id, "ejection attempted on an unconnected output slot")
	}
	agent.leaveBlock()
	if err := out.Take(agent); err != nil {
		agent.restoreBlock(b.id)
		if IsRejection(err) {
			b.rejections++
			return false, nil
		}
		return false, err
	}
	if b.OnExit != nil {
		b.OnExit(agent)
	}
	b.RemoveHeld(agent)
	return true, nil
}

// EjectHead attempts to eject the FIFO head of the held list to out. It
// reports ejected=false, err=nil if held is empty.
func (b *BaseBlock) EjectHead(out Block) (ejected bool, err error) {
	if len(b.held) == 0 {
		return false, nil
	}
	return b.TryEject(b.held[0], out)
}

// DrainFIFO repeatedly ejects the head to out until the held list is empty
// or a rejection stops the loop — spec §4.1 step 4's "FIFO order, stopping
// at the first rejection". A fatal error from TryEject aborts the drain and
// propagates immediately.
func (b *BaseBlock) DrainFIFO(out Block) error {
	for {
		ejected, err := b.EjectHead(out)
		if err != nil {
			return err
		}
		if !ejected {
			return nil
		}
	}
}

// EjectOne is DrainFIFO's single-shot sibling, used by blocks whose release
// policy is "at most one agent per tick" (Gate's release_mode="one").
func (b *BaseBlock) EjectOne(out Block) error {
	_, err := b.EjectHead(out)
	return err
}

// Held returns the live backing slice for block implementations that need
// to do their own FIFO traversal with per-agent side conditions (Delay's
// release-tick check, RestrictedAreaStart's admission gate). Callers must
// not retain the slice past a mutating call to Admit/RemoveHeld.
func (b *BaseBlock) Held() []*Agent { return b.held }

// RejectionCount returns the cumulative number of times TryEject has had an
// offer turned down by a downstream block. Used by callers driving a
// rejection metric from outside this package.
func (b *BaseBlock) RejectionCount() int { return b.rejections }
