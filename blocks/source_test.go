package blocks

import (
	"testing"

	"github.com/signalsfoundry/aim-sim/core"
)

func TestSourceTakeIsAlwaysMisconfiguration(t *testing.T) {
	s := NewSource("source-1", func(int64) int { return 0 }, core.NewAgent)
	err := s.Take(core.NewAgent())
	if _, ok := err.(*core.MisconfigurationError); !ok {
		t.Fatalf("Take() error = %v (%T), want *MisconfigurationError", err, err)
	}
}

func TestSourceSpawnsExactlyScheduleCountAndFeedsOutput(t *testing.T) {
	s := NewSource("source-1", func(tick int64) int { return 3 }, core.NewAgent)
	downstream := NewQueue("queue-1")
	s.Connect(downstream, 0)

	if err := s.Tick(0); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if downstream.Size() != 3 {
		t.Fatalf("downstream.Size() = %d, want 3", downstream.Size())
	}
}

func TestSourceDropsRejectedSpawnsWithoutBuffering(t *testing.T) {
	s := NewSource("source-1", func(int64) int { return 2 }, core.NewAgent)
	downstream := &rejectAlwaysBlock{BaseBlock: core.NewBaseBlock("sink-1")}
	s.Connect(downstream, 0)

	if err := s.Tick(0); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if len(s.Agents()) != 0 {
		t.Fatalf("Source held %d agents, want 0 (Source never buffers)", len(s.Agents()))
	}
}

func TestSourceWithNoOutputIsANoOp(t *testing.T) {
	s := NewSource("source-1", func(int64) int { return 5 }, core.NewAgent)
	if err := s.Tick(0); err != nil {
		t.Fatalf("Tick with unwired output: %v", err)
	}
}

// rejectAlwaysBlock is a minimal core.Block fake that rejects every Take,
// shared by tests that need to exercise a block's rejection-handling path.
type rejectAlwaysBlock struct {
	core.BaseBlock
	reason string
}

func (b *rejectAlwaysBlock) Take(agent *core.Agent) error {
	reason := b.reason
	if reason == "" {
		reason = "always rejects"
	}
	return core.Reject(b.ID(), reason)
}
func (b *rejectAlwaysBlock) Tick(int64) error { return nil }
