package blocks

import "github.com/signalsfoundry/aim-sim/core"

// KeyFunc computes the routing key for an agent entering a Switch.
type KeyFunc func(agent *core.Agent) any

// Switch routes each accepted agent, immediately and without buffering, to
// the output bound to KeyFunc(agent), per spec §4.3.
//
// Two distinct failure modes are both present in spec.md's prose (§7.1
// lists a missing key as a Rejection; §7.2 lists "a Switch routed to a key
// with no connection" as a Misconfiguration). This implementation
// resolves the apparent conflict by key presence: a key absent from the
// output map entirely is a Rejection (the scenario may simply not have
// wired that case yet, or the key space is open-ended and this is a
// legitimate "no route" outcome an upstream Queue should retry); a key
// present in the map but explicitly bound to a nil block is a
// Misconfiguration (the wiring call itself was a mistake).
type Switch struct {
	core.BaseBlock

	KeyFunc KeyFunc
	outputs map[any]core.Block
}

// NewSwitch constructs a Switch with the given routing function.
func NewSwitch(id string, keyFunc KeyFunc) *Switch {
	return &Switch{BaseBlock: core.NewBaseBlock(id), KeyFunc: keyFunc, outputs: make(map[any]core.Block)}
}

// ConnectKey binds key to block, per spec §6's switch.connect(key, block).
func (s *Switch) ConnectKey(key any, block core.Block) {
	s.outputs[key] = block
}

func (s *Switch) Take(agent *core.Agent) error {
	key := s.KeyFunc(agent)
	out, ok := s.outputs[key]
	if !ok {
		return core.Reject(s.ID(), "no connection for key %v", key)
	}
	if out == nil {
		return core.Misconfigured(s.ID(), "key %v is bound to a nil block", key)
	}
	return out.Take(agent)
}

// Tick is a no-op: Switch never holds an agent past its Take call.
func (s *Switch) Tick(tick int64) error { return nil }
