package core

import (
	"errors"
	"fmt"
)

// RejectionError is the expected control signal a block's Take returns when
// it cannot accept an agent this tick. The upstream block catches it and
// keeps the agent for retry next tick; it never aborts the run.
type RejectionError struct {
	BlockID string
	Reason  string
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("block %s rejected agent: %s", e.BlockID, e.Reason)
}

// Reject constructs a RejectionError for the given block.
func Reject(blockID, reason string, args ...any) error {
	return &RejectionError{BlockID: blockID, Reason: fmt.Sprintf(reason, args...)}
}

// IsRejection reports whether err is (or wraps) a RejectionError.
func IsRejection(err error) bool {
	var r *RejectionError
	return errors.As(err, &r)
}

// MisconfigurationError indicates a wiring or setup mistake: a null output
// slot, an If block missing a branch, a Switch key with no bound block, a
// ConveyorBlock referencing an unregistered entity. Fatal: it is never
// caught by the retry loop and aborts Simulator.Run.
type MisconfigurationError struct {
	BlockID string
	Reason  string
}

func (e *MisconfigurationError) Error() string {
	return fmt.Sprintf("block %s misconfigured: %s", e.BlockID, e.Reason)
}

func Misconfigured(blockID, reason string, args ...any) error {
	return &MisconfigurationError{BlockID: blockID, Reason: fmt.Sprintf(reason, args...)}
}

// InvariantViolationError indicates a bug in the engine or its caller: an
// agent owned by two blocks at once, a negative delay, a recurring callback
// with a zero period. These are raised immediately, as panics, and are
// never caught by any retry path — see DESIGN.md for the rationale.
type InvariantViolationError struct {
	Reason string
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("invariant violated: %s", e.Reason)
}

func panicInvariant(reason string, args ...any) {
	panic(&InvariantViolationError{Reason: fmt.Sprintf(reason, args...)})
}
