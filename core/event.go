package core

// EventBus implements the two-phase agent event system from spec §4.4: an
// exact-string subscription table, plus a pending/delivery double buffer so
// that an event emitted during tick t is never delivered during tick t.
//
// Grounded on kb.KnowledgeBase's Subscribe/notify shape (kb/kb.go in the
// teacher), simplified to the engine's single-threaded tick model — no
// mutex, since spec §5 rules out concurrent access to simulator-owned
// state.
type EventBus struct {
	subscribers map[string][]*Agent
	pending     []string // events collected so far this tick, for next-tick delivery
	deliverable []string // swapped in at the start of the delivery phase
}

// NewEventBus constructs an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{subscribers: make(map[string][]*Agent)}
}

// Subscribe registers agent to receive event by exact string match. Per
// spec §4.4/§9, prefix matching mentioned in ancillary prose is not
// implemented — only exact match is normative.
func (b *EventBus) Subscribe(agent *Agent, event string) {
	if event == "" {
		panicInvariant("subscribe: event must be a non-empty string")
	}
	if agent.subscribedTo(event) {
		return
	}
	agent.subscribe(event)
	b.subscribers[event] = append(b.subscribers[event], agent)
}

// collect appends events emitted this tick into the pending buffer, which
// will become deliverable at the start of next tick.
func (b *EventBus) collect(events []string) {
	b.pending = append(b.pending, events...)
}

// rotate swaps the pending buffer into deliverable, per spec §4.1 step 5:
// this happens after block ticks, so anything blocks emitted during step 4
// lands here, not in this tick's now-drained deliverable buffer.
func (b *EventBus) rotate() {
	b.deliverable = b.pending
	b.pending = nil
}

// deliver drains the deliverable buffer built by the previous tick's
// rotate, dispatching each event to its subscribers in registration order.
// No event is delivered twice: the buffer is cleared as it drains.
func (b *EventBus) deliver() {
	events := b.deliverable
	b.deliverable = nil
	for _, event := range events {
		for _, agent := range b.subscribers[event] {
			agent.deliver(event)
		}
	}
}
