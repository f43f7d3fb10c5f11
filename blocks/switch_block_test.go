package blocks

import (
	"testing"

	"github.com/signalsfoundry/aim-sim/core"
)

func TestSwitchRoutesToBoundKey(t *testing.T) {
	s := NewSwitch("switch-1", func(agent *core.Agent) any { return agent.ID })
	a := core.NewAgent()
	out := NewQueue("queue-a")
	s.ConnectKey(a.ID, out)

	if err := s.Take(a); err != nil {
		t.Fatalf("Take: %v", err)
	}
	if out.Size() != 1 {
		t.Fatalf("out.Size() = %d, want 1", out.Size())
	}
}

func TestSwitchRejectsAnUnboundKey(t *testing.T) {
	s := NewSwitch("switch-1", func(agent *core.Agent) any { return "missing-key" })
	err := s.Take(core.NewAgent())
	if !core.IsRejection(err) {
		t.Fatalf("Take() error = %v, want a RejectionError for an unbound key", err)
	}
}

func TestSwitchTreatsKeyBoundToNilBlockAsMisconfiguration(t *testing.T) {
	s := NewSwitch("switch-1", func(agent *core.Agent) any { return "k" })
	s.ConnectKey("k", nil)

	err := s.Take(core.NewAgent())
	if _, ok := err.(*core.MisconfigurationError); !ok {
		t.Fatalf("Take() error = %v (%T), want *MisconfigurationError for a key explicitly bound to nil", err, err)
	}
}

func TestSwitchNeverBuffersPastTake(t *testing.T) {
	s := NewSwitch("switch-1", func(agent *core.Agent) any { return "k" })
	s.ConnectKey("k", NewQueue("queue-a"))
	s.Take(core.NewAgent())
	if len(s.Agents()) != 0 {
		t.Fatalf("Switch held %d agents, want 0", len(s.Agents()))
	}
}
