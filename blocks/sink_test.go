package blocks

import (
	"testing"

	"github.com/signalsfoundry/aim-sim/core"
)

func TestSinkAbsorbsEveryAgentAndCounts(t *testing.T) {
	s := NewSink("sink-1")
	for i := 0; i < 4; i++ {
		if err := s.Take(core.NewAgent()); err != nil {
			t.Fatalf("Take #%d: %v", i, err)
		}
	}
	if s.Count() != 4 {
		t.Fatalf("Count() = %d, want 4", s.Count())
	}
	if err := s.Tick(0); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if s.Count() != 4 {
		t.Fatalf("Count() after Tick = %d, want unchanged 4", s.Count())
	}
}

func TestSinkHoldsAgentsForever(t *testing.T) {
	s := NewSink("sink-1")
	a := core.NewAgent()
	s.Take(a)
	if a.CurrentBlock() != "sink-1" {
		t.Fatalf("CurrentBlock() = %q, want sink-1", a.CurrentBlock())
	}
	for i := 0; i < 10; i++ {
		s.Tick(int64(i))
	}
	if len(s.Agents()) != 1 {
		t.Fatalf("Agents() = %v, want the one absorbed agent still held", s.Agents())
	}
}
