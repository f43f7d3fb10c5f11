// Package blocks implements the canonical block family from spec §4.3: the
// concrete node types that accept, hold, and route agents through a flow
// graph built on core.BaseBlock.
package blocks

import "github.com/signalsfoundry/aim-sim/core"

// SpawnSchedule decides how many fresh agents a Source should spawn at the
// given tick. Grounded on the original's spawn_rate constant, generalized
// to a callable so scenarios can vary spawn rate over time.
type SpawnSchedule func(tick int64) int

// AgentFactory constructs a fresh agent for a Source to spawn.
type AgentFactory func() *core.Agent

// Source spawns new agents each tick and feeds them into its sole output.
// It never holds an agent itself — rejected spawns are dropped, per spec
// §4.3: "Source has no buffer."
type Source struct {
	core.BaseBlock

	Schedule SpawnSchedule
	NewAgent AgentFactory
}

// NewSource constructs a Source with the given id, spawn schedule, and
// agent factory.
func NewSource(id string, schedule SpawnSchedule, newAgent AgentFactory) *Source {
	return &Source{BaseBlock: core.NewBaseBlock(id), Schedule: schedule, NewAgent: newAgent}
}

// Take always fails: nothing may be pushed into a Source, it only
// produces. Wiring a block's output into a Source is a configuration bug.
func (s *Source) Take(agent *core.Agent) error {
	return core.Misconfigured(s.ID(), "Source does not accept incoming agents")
}

// Tick spawns Schedule(tick) fresh agents and offers each, one at a time,
// to the sole output. A rejected spawn is dropped rather than buffered.
func (s *Source) Tick(tick int64) error {
	out := s.OutputAt(0)
	if out == nil {
		return nil
	}
	count := s.Schedule(tick)
	for i := 0; i < count; i++ {
		agent := s.NewAgent()
		if err := out.Take(agent); err != nil {
			if core.IsRejection(err) {
				continue
			}
			return err
		}
	}
	return nil
}
