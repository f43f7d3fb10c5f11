package blocks

import (
	"testing"

	"github.com/signalsfoundry/aim-sim/core"
	"github.com/signalsfoundry/aim-sim/spatial"
)

func buildSingleConveyorSpace(length, speed float64) (*spatial.ConveyorSpace, *spatial.Conveyor) {
	space := spatial.NewConveyorSpace()
	conv := spatial.NewConveyor("belt-1", []spatial.Vec3{{X: 0}, {X: length}}, speed)
	space.RegisterEntity(conv)
	return space, conv
}

func TestNewConveyorBlockRejectsEmptyEntityIDs(t *testing.T) {
	space, _ := buildSingleConveyorSpace(10, 1)
	if _, err := NewConveyorBlock("conv-1", space, "", "belt-1"); err == nil {
		t.Fatal("expected error for empty start entity")
	}
	if _, err := NewConveyorBlock("conv-1", space, "belt-1", ""); err == nil {
		t.Fatal("expected error for empty end entity")
	}
}

func TestConveyorBlockAcceptsAtMostOneAgentPerTick(t *testing.T) {
	space, _ := buildSingleConveyorSpace(10, 1)
	cb, err := NewConveyorBlock("conv-1", space, "belt-1", "belt-1")
	if err != nil {
		t.Fatalf("NewConveyorBlock: %v", err)
	}
	a, b := core.NewAgent(), core.NewAgent()
	if err := cb.Take(a); err != nil {
		t.Fatalf("first Take: %v", err)
	}
	err = cb.Take(b)
	if !core.IsRejection(err) {
		t.Fatalf("second Take error = %v, want RejectionError (single-entry-point-per-tick)", err)
	}
	if cb.InTransitCount() != 1 {
		t.Fatalf("InTransitCount() = %d, want 1", cb.InTransitCount())
	}
}

func TestConveyorBlockTickResetsEntryGateEachTick(t *testing.T) {
	space, _ := buildSingleConveyorSpace(10, 1)
	cb, _ := NewConveyorBlock("conv-1", space, "belt-1", "belt-1")
	sink := NewSink("sink-1")
	cb.Connect(sink, 0)

	cb.Take(core.NewAgent())
	// Advance the space as the simulator's phase 2 does, so the first
	// agent has moved off the entry point before the block's tick.
	space.Update(1)
	cb.Tick(0)
	// A new agent should be acceptable again on the next tick.
	if err := cb.Take(core.NewAgent()); err != nil {
		t.Fatalf("Take on the next tick: %v", err)
	}
}

func TestConveyorBlockRejectsAnUnreachablePath(t *testing.T) {
	space := spatial.NewConveyorSpace()
	a := spatial.NewConveyor("belt-a", []spatial.Vec3{{X: 0}, {X: 10}}, 1)
	b := spatial.NewConveyor("belt-b", []spatial.Vec3{{X: 0}, {X: 10}}, 1)
	space.RegisterEntity(a)
	space.RegisterEntity(b) // no connection from a to b

	cb, _ := NewConveyorBlock("conv-1", space, "belt-a", "belt-b")
	err := cb.Take(core.NewAgent())
	if !core.IsRejection(err) {
		t.Fatalf("Take() error = %v, want RejectionError for an unreachable path", err)
	}
}

func TestConveyorBlockEjectsOnlyOnceMovementCompletes(t *testing.T) {
	space, _ := buildSingleConveyorSpace(4, 1) // 4 ticks to traverse at speed 1
	cb, _ := NewConveyorBlock("conv-1", space, "belt-1", "belt-1")
	sink := NewSink("sink-1")
	cb.Connect(sink, 0)

	agent := core.NewAgent()
	if err := cb.Take(agent); err != nil {
		t.Fatalf("Take: %v", err)
	}

	for tick := int64(0); tick < 3; tick++ {
		space.Update(1)
		if err := cb.Tick(tick); err != nil {
			t.Fatalf("Tick(%d): %v", tick, err)
		}
		if sink.Count() != 0 {
			t.Fatalf("tick %d: sink.Count() = %d, want 0 (movement not yet complete)", tick, sink.Count())
		}
	}
	space.Update(1) // 4th increment reaches progress 1
	if err := cb.Tick(3); err != nil {
		t.Fatalf("Tick(3): %v", err)
	}
	if sink.Count() != 1 {
		t.Fatalf("sink.Count() = %d, want 1", sink.Count())
	}
	if cb.InTransitCount() != 0 {
		t.Fatalf("InTransitCount() = %d, want 0", cb.InTransitCount())
	}
}

func TestConveyorBlockAgentsReportsInTransitNotHeld(t *testing.T) {
	space, _ := buildSingleConveyorSpace(10, 1)
	cb, _ := NewConveyorBlock("conv-1", space, "belt-1", "belt-1")
	agent := core.NewAgent()
	cb.Take(agent)
	agents := cb.Agents()
	if len(agents) != 1 || agents[0] != agent {
		t.Fatalf("Agents() = %v, want [agent]", agents)
	}
	if agent.CurrentBlock() != "" {
		t.Fatalf("CurrentBlock() = %q, want empty: ownership passed to the space, not the block", agent.CurrentBlock())
	}
	if !agent.InSpace() {
		t.Fatal("agent.InSpace() = false after a successful Register")
	}
}
