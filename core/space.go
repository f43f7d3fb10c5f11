package core

// SpaceManager is the spatial substrate contract from spec §2/§4.5: a space
// owns the in-transit state of agents moving between two points, advancing
// them during the simulator's phase-2 update and reporting completion to
// the blocks that registered them.
//
// Grounded on the teacher's motion.Model interface shape (core/motion.go):
// a narrow set of verbs a concrete implementation fulfills, with the engine
// never reaching into implementation-specific state.
type SpaceManager interface {
	// Register attempts to place agent into transit from startEntity to
	// endEntity. It returns false (never an error) on an unreachable path
	// or a collision at the entry interval — the caller (a block's Take)
	// turns a false return into a RejectionError.
	Register(agent *Agent, startEntity, endEntity string) bool
	// Unregister removes agent from the space's occupancy tracking. It
	// returns false if agent was not registered.
	Unregister(agent *Agent) bool
	// Update advances every registered agent's progress by deltaTime,
	// handling entity-to-entity handoff and junction stalling. Called once
	// per tick, during phase 2, with deltaTime = 1.
	Update(deltaTime float64)
	// IsMovementComplete reports whether agent has reached progress 1 on
	// the last entity of its stored path.
	IsMovementComplete(agent *Agent) bool
}
