package core

// Hooks is the narrow capability surface the engine calls into an agent
// through. Agents that don't care about a hook simply leave it nil — the
// engine checks before calling, the same pattern core/motion.go in the
// teacher uses for optional per-platform behaviour.
type Hooks struct {
	// OnEnterBlock is called when the agent is admitted into a block.
	OnEnterBlock func(blockID string)
	// OnEvent is called once per delivered event, in delivery order.
	OnEvent func(event string)
}

// Agent is the opaque data carrier that flows through the block graph and,
// while in transit, through a Space. It never contains simulation logic of
// its own beyond the two Hooks above.
type Agent struct {
	ID     string
	Width  float64
	Length float64

	// SpaceState holds free-form spatial bookkeeping (progress, path,
	// entry/exit progress per entity, ...). Owned exclusively by whichever
	// Space currently holds the agent in transit.
	SpaceState map[string]any

	// ParentAgents / ChildrenAgents model the Combine/Split relation. They
	// are plain id-free pointers, not ownership edges.
	ParentAgents   []*Agent
	ChildrenAgents []*Agent

	Hooks Hooks

	currentBlock string // block ID, "" if none
	inSpace      bool

	subscriptions map[string]struct{}
	pendingEmit   []string
}

// NewAgent constructs an agent with a random ID. Scenarios that need
// deterministic IDs should set Agent.ID after construction.
func NewAgent() *Agent {
	return &Agent{
		ID:            NewAgentID(),
		SpaceState:    make(map[string]any),
		subscriptions: make(map[string]struct{}),
	}
}

// CurrentBlock returns the ID of the block currently owning this agent, or
// "" if the agent is held by a space or has been destroyed.
func (a *Agent) CurrentBlock() string { return a.currentBlock }

// InSpace reports whether the agent is currently mid-transit in a space.
func (a *Agent) InSpace() bool { return a.inSpace }

// EmitEvent stages an event for delivery at the start of next tick. Per the
// two-buffer design, this never causes delivery within the current tick,
// even to the emitting agent's own subscriptions.
func (a *Agent) EmitEvent(event string) {
	if event == "" {
		panicInvariant("emitted event must be a non-empty string")
	}
	a.pendingEmit = append(a.pendingEmit, event)
}

// enterBlock marks the agent as owned by blockID and fires OnEnterBlock.
// Called only by BaseBlock.Admit.
func (a *Agent) enterBlock(blockID string) {
	if a.inSpace {
		panicInvariant("agent %s entered block %s while still held by a space", a.ID, blockID)
	}
	if a.currentBlock != "" && a.currentBlock != blockID {
		panicInvariant("agent %s entered block %s while still owned by block %s", a.ID, blockID, a.currentBlock)
	}
	a.currentBlock = blockID
	if a.Hooks.OnEnterBlock != nil {
		a.Hooks.OnEnterBlock(blockID)
	}
}

// leaveBlock clears block ownership. Called by BaseBlock before offering the
// agent to a downstream Take (so the downstream's own enterBlock doesn't
// trip the ownership invariant against the upstream's id), and permanently
// once that Take succeeds.
func (a *Agent) leaveBlock() {
	a.currentBlock = ""
}

// restoreBlock re-establishes ownership by blockID. Called by BaseBlock when
// a downstream Take it offered the agent to after a provisional leaveBlock
// turns out to reject it, so the agent stays validly owned by the block
// still holding it for a retry next tick.
func (a *Agent) restoreBlock(blockID string) {
	a.currentBlock = blockID
}

// EnterSpace / LeaveSpace toggle the space-custody half of the ownership
// invariant; see Agent doc comment and spec §3. Called by a SpaceManager
// implementation (outside this package) on successful Register/Unregister.
func (a *Agent) EnterSpace() {
	if a.currentBlock != "" {
		panicInvariant("agent %s registered with a space while still owned by block %s", a.ID, a.currentBlock)
	}
	a.inSpace = true
}

func (a *Agent) LeaveSpace() {
	a.inSpace = false
}

func (a *Agent) subscribe(event string) {
	a.subscriptions[event] = struct{}{}
}

func (a *Agent) subscribedTo(event string) bool {
	_, ok := a.subscriptions[event]
	return ok
}

// deliver invokes the agent's OnEvent hook, if any.
func (a *Agent) deliver(event string) {
	if a.Hooks.OnEvent != nil {
		a.Hooks.OnEvent(event)
	}
}

// Release clears block ownership without transferring it to another
// block. Used by Combine when a pickup is absorbed into a held container:
// the pickup is no longer independently tracked by any block (it travels
// inside the container's ChildrenAgents until Split re-homes it), which
// spec §4.3 describes as the container owning it "for agent-lifecycle
// purposes" rather than a literal block-ownership edge.
func (a *Agent) Release() { a.leaveBlock() }

// drainEmitted returns and clears events the agent emitted this tick.
func (a *Agent) drainEmitted() []string {
	if len(a.pendingEmit) == 0 {
		return nil
	}
	emitted := a.pendingEmit
	a.pendingEmit = nil
	return emitted
}
