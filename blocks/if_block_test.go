package blocks

import (
	"testing"

	"github.com/signalsfoundry/aim-sim/core"
)

func TestIfRoutesTrueToSlotZero(t *testing.T) {
	b := NewIf("if-1", func(agent *core.Agent) bool { return true })
	trueOut := NewQueue("true-queue")
	falseOut := NewQueue("false-queue")
	b.ConnectTrue(trueOut)
	b.ConnectFalse(falseOut)

	if err := b.Take(core.NewAgent()); err != nil {
		t.Fatalf("Take: %v", err)
	}
	if trueOut.Size() != 1 || falseOut.Size() != 0 {
		t.Fatalf("trueOut.Size()=%d falseOut.Size()=%d, want 1/0", trueOut.Size(), falseOut.Size())
	}
}

func TestIfRoutesFalseToSlotOne(t *testing.T) {
	b := NewIf("if-1", func(agent *core.Agent) bool { return false })
	trueOut := NewQueue("true-queue")
	falseOut := NewQueue("false-queue")
	b.ConnectTrue(trueOut)
	b.ConnectFalse(falseOut)

	if err := b.Take(core.NewAgent()); err != nil {
		t.Fatalf("Take: %v", err)
	}
	if trueOut.Size() != 0 || falseOut.Size() != 1 {
		t.Fatalf("trueOut.Size()=%d falseOut.Size()=%d, want 0/1", trueOut.Size(), falseOut.Size())
	}
}

func TestIfRequiresBothBranchesWiredEvenWhenOnlyOneIsEverTaken(t *testing.T) {
	b := NewIf("if-1", func(agent *core.Agent) bool { return true })
	trueOut := NewQueue("true-queue")
	b.ConnectTrue(trueOut)
	// falseOut deliberately left unconnected.

	err := b.Take(core.NewAgent())
	if _, ok := err.(*core.MisconfigurationError); !ok {
		t.Fatalf("Take() error = %v (%T), want *MisconfigurationError (both branches must be wired eagerly)", err, err)
	}
}

func TestIfNeverBuffersPastTake(t *testing.T) {
	b := NewIf("if-1", func(agent *core.Agent) bool { return true })
	b.ConnectTrue(NewQueue("true-queue"))
	b.ConnectFalse(NewQueue("false-queue"))
	b.Take(core.NewAgent())
	if len(b.Agents()) != 0 {
		t.Fatalf("If held %d agents, want 0", len(b.Agents()))
	}
}
