package blocks

import "github.com/signalsfoundry/aim-sim/core"

// Queue is an unbounded FIFO buffer. It never rejects a Take; its Tick
// retries ejecting the head to its sole output until a rejection stops the
// drain, per spec §4.3.
type Queue struct {
	core.BaseBlock
}

// NewQueue constructs an empty Queue with the given id.
func NewQueue(id string) *Queue {
	return &Queue{BaseBlock: core.NewBaseBlock(id)}
}

func (q *Queue) Take(agent *core.Agent) error {
	q.Admit(agent)
	return nil
}

func (q *Queue) Tick(tick int64) error {
	return q.DrainFIFO(q.OutputAt(0))
}

// Size returns the number of agents currently waiting.
func (q *Queue) Size() int { return q.BaseBlock.Size() }
