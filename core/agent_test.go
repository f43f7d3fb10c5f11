package core

import "testing"

func TestAgentEnterBlockTracksOwnership(t *testing.T) {
	a := NewAgent()
	if a.CurrentBlock() != "" {
		t.Fatalf("CurrentBlock() = %q, want empty", a.CurrentBlock())
	}
	a.enterBlock("queue-1")
	if a.CurrentBlock() != "queue-1" {
		t.Fatalf("CurrentBlock() = %q, want queue-1", a.CurrentBlock())
	}
	a.leaveBlock()
	if a.CurrentBlock() != "" {
		t.Fatalf("CurrentBlock() after leaveBlock = %q, want empty", a.CurrentBlock())
	}
}

func TestAgentEnterBlockSameBlockIsIdempotent(t *testing.T) {
	a := NewAgent()
	a.enterBlock("queue-1")
	a.enterBlock("queue-1") // must not panic
	if a.CurrentBlock() != "queue-1" {
		t.Fatalf("CurrentBlock() = %q, want queue-1", a.CurrentBlock())
	}
}

func TestAgentEnterBlockPanicsOnDoubleOwnership(t *testing.T) {
	a := NewAgent()
	a.enterBlock("queue-1")

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic on double block ownership")
		}
		if _, ok := r.(*InvariantViolationError); !ok {
			t.Fatalf("recovered %T, want *InvariantViolationError", r)
		}
	}()
	a.enterBlock("queue-2")
}

func TestAgentEnterSpacePanicsWhileOwnedByBlock(t *testing.T) {
	a := NewAgent()
	a.enterBlock("queue-1")

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic entering a space while still owned by a block")
		}
	}()
	a.EnterSpace()
}

func TestAgentEmitEventPanicsOnEmptyString(t *testing.T) {
	a := NewAgent()
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic emitting an empty event")
		}
	}()
	a.EmitEvent("")
}

func TestAgentDrainEmittedClearsBuffer(t *testing.T) {
	a := NewAgent()
	a.EmitEvent("ping")
	a.EmitEvent("pong")

	got := a.drainEmitted()
	if len(got) != 2 || got[0] != "ping" || got[1] != "pong" {
		t.Fatalf("drainEmitted() = %v, want [ping pong]", got)
	}
	if got := a.drainEmitted(); got != nil {
		t.Fatalf("second drainEmitted() = %v, want nil", got)
	}
}

func TestAgentReleaseClearsBlockWithoutTransfer(t *testing.T) {
	a := NewAgent()
	a.enterBlock("combine-1")
	a.Release()
	if a.CurrentBlock() != "" {
		t.Fatalf("CurrentBlock() after Release = %q, want empty", a.CurrentBlock())
	}
	// Released agents can be picked up by a new block without panicking.
	a.enterBlock("split-1")
	if a.CurrentBlock() != "split-1" {
		t.Fatalf("CurrentBlock() = %q, want split-1", a.CurrentBlock())
	}
}
