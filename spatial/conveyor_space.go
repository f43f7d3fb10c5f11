package spatial

import "github.com/signalsfoundry/aim-sim/core"

// occupant is one agent's closed progress interval on an entity, per spec
// §3's occupancy model.
type occupant struct {
	agent *core.Agent
	a, b  float64
}

type transit struct {
	path             []string
	index            int
	progressOnEntity float64
}

// ConveyorSpace is the canonical SpaceManager: a graph of conveyors and
// turntables, Dijkstra pathfinding over time-weighted edges, and
// closed-interval collision-aware progress advancement, per spec §4.5.
//
// Grounded on spaces/manufacturing/conveyor_space.py's per-agent state
// dictionaries and collision check, generalized from its single-entity
// model to the multi-entity graph traversal spec.md actually specifies.
type ConveyorSpace struct {
	graph       *graph
	occupancy   map[string][]*occupant
	transits    map[*core.Agent]*transit
	entityByID  map[string]Entity
	entityOrder []string
	order       []*core.Agent
}

// NewConveyorSpace constructs an empty ConveyorSpace.
func NewConveyorSpace() *ConveyorSpace {
	return &ConveyorSpace{
		graph:      newGraph(),
		occupancy:  make(map[string][]*occupant),
		transits:   make(map[*core.Agent]*transit),
		entityByID: make(map[string]Entity),
	}
}

// RegisterEntity adds a conveyor or turntable to the graph. Idempotent.
func (s *ConveyorSpace) RegisterEntity(e Entity) {
	s.graph.addEntity(e)
	if _, ok := s.entityByID[e.ID()]; !ok {
		s.entityOrder = append(s.entityOrder, e.ID())
	}
	s.entityByID[e.ID()] = e
	if _, ok := s.occupancy[e.ID()]; !ok {
		s.occupancy[e.ID()] = nil
	}
}

// EntityIDs returns every registered entity's ID, in registration order,
// for callers (e.g. occupancy metrics) that need a deterministic sweep
// over the graph.
func (s *ConveyorSpace) EntityIDs() []string {
	out := make([]string, len(s.entityOrder))
	copy(out, s.entityOrder)
	return out
}

// Occupancy returns the number of agents currently occupying entityID.
func (s *ConveyorSpace) Occupancy(entityID string) int {
	return len(s.occupancy[entityID])
}

// IsEntityRegistered reports whether entityID has been added via
// RegisterEntity.
func (s *ConveyorSpace) IsEntityRegistered(entityID string) bool {
	_, ok := s.entityByID[entityID]
	return ok
}

// Register computes a Dijkstra path from startEntity to endEntity and, if
// the entry interval on the first entity doesn't collide with existing
// occupancy, places agent at progress 0 there. Returns false (never an
// error) on an unreachable path or a collision, per spec §4.5.
func (s *ConveyorSpace) Register(agent *core.Agent, startEntity, endEntity string) bool {
	if !s.IsEntityRegistered(startEntity) || !s.IsEntityRegistered(endEntity) {
		return false
	}
	path := s.graph.shortestPath(startEntity, endEntity)
	if path == nil {
		return false
	}

	ratio := entryRatio(agent, s.entityByID[path[0]])
	if s.collides(path[0], agent, 0, ratio) {
		return false
	}

	s.occupancy[path[0]] = append(s.occupancy[path[0]], &occupant{agent: agent, a: 0, b: ratio})
	s.transits[agent] = &transit{path: path, index: 0, progressOnEntity: 0}
	s.order = append(s.order, agent)
	agent.EnterSpace()
	agent.SpaceState["path"] = append([]string(nil), path...)
	agent.SpaceState["progress_on_entity"] = 0.0
	agent.SpaceState["progress_on_path"] = 0.0
	return true
}

func entryRatio(agent *core.Agent, e Entity) float64 {
	if e.Length() <= 0 {
		return 1
	}
	r := agent.Length / e.Length()
	if r > 1 {
		return 1
	}
	return r
}

// collides reports whether interval [a,b] on entityID overlaps any
// existing occupant's interval, treating touching endpoints as a
// collision per spec §4.5's closed-interval convention, unless the
// interval belongs to the same agent already on the entity.
func (s *ConveyorSpace) collides(entityID string, agent *core.Agent, a, b float64) bool {
	for _, occ := range s.occupancy[entityID] {
		if occ.agent == agent {
			continue
		}
		if a <= occ.b && occ.a <= b {
			return true
		}
	}
	return false
}

// Unregister removes agent from occupancy tracking, returning false if it
// was not registered.
func (s *ConveyorSpace) Unregister(agent *core.Agent) bool {
	tr, ok := s.transits[agent]
	if !ok {
		return false
	}
	entityID := tr.path[tr.index]
	s.removeOccupant(entityID, agent)
	delete(s.transits, agent)
	for i, a := range s.order {
		if a == agent {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	agent.LeaveSpace()
	delete(agent.SpaceState, "path")
	delete(agent.SpaceState, "progress_on_entity")
	delete(agent.SpaceState, "progress_on_path")
	return true
}

func (s *ConveyorSpace) removeOccupant(entityID string, agent *core.Agent) {
	occs := s.occupancy[entityID]
	for i, occ := range occs {
		if occ.agent == agent {
			s.occupancy[entityID] = append(occs[:i], occs[i+1:]...)
			return
		}
	}
}

// Update advances every registered agent's progress by deltaTime, in
// registration order, matching the registration-order determinism the rest
// of the engine guarantees for block ticks and event delivery. On reaching
// the end of the current entity, it attempts handoff to the next entity on
// the path; if the next entity's entry interval would collide, the agent
// stalls at the junction (progress clamped at 1 on the current entity) for
// a retry next tick, per spec §4.5. Iterating a fixed slice rather than
// s.transits (a map) means two agents contending for the same downstream
// entity in one tick always resolve in the same order for a given seed —
// ranging over a Go map directly would randomize that outcome per run.
func (s *ConveyorSpace) Update(deltaTime float64) {
	for _, agent := range s.order {
		tr := s.transits[agent]
		entityID := tr.path[tr.index]
		entity := s.entityByID[entityID]

		length := entity.Length()
		var increment float64
		if length > 0 {
			increment = (entity.Speed() * deltaTime) / length
		} else {
			increment = 1
		}

		progress := tr.progressOnEntity + increment
		if progress < 1 || tr.index == len(tr.path)-1 {
			if progress > 1 {
				progress = 1
			}
			tr.progressOnEntity = progress
			s.updateOccupantInterval(entityID, agent)
			s.publishProgress(agent, tr)
			continue
		}

		// Reached the end of a non-final entity: attempt handoff.
		nextID := tr.path[tr.index+1]
		nextEntity := s.entityByID[nextID]
		ratio := entryRatio(agent, nextEntity)
		if s.collides(nextID, agent, 0, ratio) {
			// Stall at the junction.
			tr.progressOnEntity = 1
			s.updateOccupantInterval(entityID, agent)
			s.publishProgress(agent, tr)
			continue
		}

		s.removeOccupant(entityID, agent)
		s.occupancy[nextID] = append(s.occupancy[nextID], &occupant{agent: agent, a: 0, b: ratio})
		tr.index++
		tr.progressOnEntity = 0
		s.publishProgress(agent, tr)
	}
}

// updateOccupantInterval slides agent's occupied interval on entityID
// forward with its current progress, per spec §4.5's "occupancy interval —
// the closed [a,b] progress range an agent currently covers": the footprint
// leads with progress and trails by the agent's length ratio, so a second
// agent's entry interval at the front of the entity stops colliding once
// the first has advanced far enough to clear it.
func (s *ConveyorSpace) updateOccupantInterval(entityID string, agent *core.Agent) {
	tr, ok := s.transits[agent]
	if !ok {
		return
	}
	for _, occ := range s.occupancy[entityID] {
		if occ.agent == agent {
			entity := s.entityByID[entityID]
			ratio := entryRatio(agent, entity)
			occ.a = tr.progressOnEntity
			occ.b = tr.progressOnEntity + ratio
			if occ.b > 1 {
				occ.b = 1
			}
			return
		}
	}
}

// publishProgress mirrors the transit's internal state onto
// agent.SpaceState for observers, and computes progress_on_path as the
// fraction of the path completed — monotonically non-decreasing since it
// only grows as index and progressOnEntity advance.
func (s *ConveyorSpace) publishProgress(agent *core.Agent, tr *transit) {
	agent.SpaceState["progress_on_entity"] = tr.progressOnEntity
	agent.SpaceState["progress_on_path"] = (float64(tr.index) + tr.progressOnEntity) / float64(len(tr.path))
}

// IsMovementComplete reports whether agent has reached progress 1 on the
// last entity of its stored path.
func (s *ConveyorSpace) IsMovementComplete(agent *core.Agent) bool {
	tr, ok := s.transits[agent]
	if !ok {
		return false
	}
	return tr.index == len(tr.path)-1 && tr.progressOnEntity >= 1
}
