package core

import "github.com/google/uuid"

// NewAgentID returns a collision-free default agent identifier for
// scenarios that don't assign their own.
func NewAgentID() string { return "agent-" + uuid.NewString() }

// NewBlockID returns a collision-free default block identifier for
// scenarios that don't assign their own.
func NewBlockID(kind string) string { return kind + "-" + uuid.NewString() }
