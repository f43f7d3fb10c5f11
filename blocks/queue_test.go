package blocks

import (
	"testing"

	"github.com/signalsfoundry/aim-sim/core"
)

func TestQueueTakeNeverRejects(t *testing.T) {
	q := NewQueue("queue-1")
	for i := 0; i < 5; i++ {
		if err := q.Take(core.NewAgent()); err != nil {
			t.Fatalf("Take #%d: %v", i, err)
		}
	}
	if q.Size() != 5 {
		t.Fatalf("Size() = %d, want 5", q.Size())
	}
}

func TestQueueTickDrainsFIFOUntilFirstRejection(t *testing.T) {
	q := NewQueue("queue-1")
	a, b, c := core.NewAgent(), core.NewAgent(), core.NewAgent()
	q.Take(a)
	q.Take(b)
	q.Take(c)

	downstream := &rejectAfterNBlock{BaseBlock: core.NewBaseBlock("sink-1"), acceptLimit: 1}
	q.Connect(downstream, 0)

	if err := q.Tick(0); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if q.Size() != 2 {
		t.Fatalf("Size() after drain = %d, want 2 (a accepted, b rejected, c never attempted)", q.Size())
	}
	if len(downstream.accepted) != 1 || downstream.accepted[0] != a {
		t.Fatalf("downstream accepted %v, want [a]", downstream.accepted)
	}
}

func TestQueueTickWithUnwiredOutputIsMisconfiguration(t *testing.T) {
	q := NewQueue("queue-1")
	q.Take(core.NewAgent())
	err := q.Tick(0)
	if _, ok := err.(*core.MisconfigurationError); !ok {
		t.Fatalf("Tick() error = %v (%T), want *MisconfigurationError", err, err)
	}
}

// rejectAfterNBlock accepts the first acceptLimit agents offered to it and
// rejects every agent after that, used to exercise FIFO drains that must
// stop partway through.
type rejectAfterNBlock struct {
	core.BaseBlock
	acceptLimit int
	accepted    []*core.Agent
}

func (b *rejectAfterNBlock) Take(agent *core.Agent) error {
	if len(b.accepted) >= b.acceptLimit {
		return core.Reject(b.ID(), "at capacity")
	}
	b.accepted = append(b.accepted, agent)
	return nil
}
func (b *rejectAfterNBlock) Tick(int64) error { return nil }
