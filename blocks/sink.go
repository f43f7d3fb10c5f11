package blocks

import "github.com/signalsfoundry/aim-sim/core"

// Sink is a terminal block: it accepts every agent unconditionally, counts
// it, and holds it for the rest of the run, per spec §4.3.
type Sink struct {
	core.BaseBlock
}

// NewSink constructs an empty Sink.
func NewSink(id string) *Sink {
	return &Sink{BaseBlock: core.NewBaseBlock(id)}
}

func (s *Sink) Take(agent *core.Agent) error {
	s.Admit(agent)
	return nil
}

// Tick is a no-op: absorbed agents simply sit here.
func (s *Sink) Tick(tick int64) error { return nil }

// Count returns the number of agents absorbed so far.
func (s *Sink) Count() int { return s.BaseBlock.Size() }
