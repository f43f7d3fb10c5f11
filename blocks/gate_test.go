package blocks

import (
	"testing"

	"github.com/signalsfoundry/aim-sim/core"
)

func TestNewGateRejectsInvalidInitialState(t *testing.T) {
	if _, err := NewGate("gate-1", "sideways", ReleaseOne); err == nil {
		t.Fatal("expected error for invalid initial_state")
	}
}

func TestNewGateRejectsInvalidReleaseMode(t *testing.T) {
	if _, err := NewGate("gate-1", GateOpen, "some"); err == nil {
		t.Fatal("expected error for invalid release_mode")
	}
}

func TestNewGateDefaultsReleaseModeToOne(t *testing.T) {
	g, err := NewGate("gate-1", GateOpen, "")
	if err != nil {
		t.Fatalf("NewGate: %v", err)
	}
	if g.releaseMode != ReleaseOne {
		t.Fatalf("releaseMode = %q, want %q", g.releaseMode, ReleaseOne)
	}
}

func TestGateBuffersWhileClosed(t *testing.T) {
	g, _ := NewGate("gate-1", GateClosed, ReleaseOne)
	downstream := NewQueue("queue-1")
	g.Connect(downstream, 0)

	g.Take(core.NewAgent())
	g.Take(core.NewAgent())
	if err := g.Tick(0); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if g.Size() != 2 {
		t.Fatalf("Size() = %d, want 2 (closed gate releases nothing)", g.Size())
	}
	if downstream.Size() != 0 {
		t.Fatalf("downstream.Size() = %d, want 0", downstream.Size())
	}
}

func TestGateReleasesOnePerTickWhenOpenInOneMode(t *testing.T) {
	g, _ := NewGate("gate-1", GateOpen, ReleaseOne)
	downstream := NewQueue("queue-1")
	g.Connect(downstream, 0)
	g.Take(core.NewAgent())
	g.Take(core.NewAgent())

	g.Tick(0)
	if g.Size() != 1 || downstream.Size() != 1 {
		t.Fatalf("after tick 1: gate.Size()=%d downstream.Size()=%d, want 1/1", g.Size(), downstream.Size())
	}
	g.Tick(1)
	if g.Size() != 0 || downstream.Size() != 2 {
		t.Fatalf("after tick 2: gate.Size()=%d downstream.Size()=%d, want 0/2", g.Size(), downstream.Size())
	}
}

func TestGateReleasesAllWhenOpenInAllMode(t *testing.T) {
	g, _ := NewGate("gate-1", GateOpen, ReleaseAll)
	downstream := NewQueue("queue-1")
	g.Connect(downstream, 0)
	g.Take(core.NewAgent())
	g.Take(core.NewAgent())
	g.Take(core.NewAgent())

	if err := g.Tick(0); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if g.Size() != 0 || downstream.Size() != 3 {
		t.Fatalf("gate.Size()=%d downstream.Size()=%d, want 0/3", g.Size(), downstream.Size())
	}
}

func TestGateToggleFlipsState(t *testing.T) {
	g, _ := NewGate("gate-1", GateClosed, ReleaseOne)
	g.Toggle()
	if g.State() != GateOpen {
		t.Fatalf("State() after Toggle = %q, want open", g.State())
	}
	g.Toggle()
	if g.State() != GateClosed {
		t.Fatalf("State() after second Toggle = %q, want closed", g.State())
	}
}
