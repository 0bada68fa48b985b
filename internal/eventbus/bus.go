package eventbus

import (
	"context"
	"sync"

	"pkt.systems/agentpane/schema"
	"pkt.systems/pslog"
)

// Bus fans session events out to subscribers. It implements the core
// EventSink and never blocks the publisher: a subscriber whose buffer
// is full simply misses the event.
type Bus struct {
	mu    sync.Mutex
	subs  map[chan schema.SessionEvent]struct{}
	log   pslog.Logger
	depth int
}

// New constructs a Bus.
func New(logger pslog.Logger) *Bus {
	if logger == nil {
		logger = pslog.Ctx(context.Background())
	}
	return &Bus{
		subs:  make(map[chan schema.SessionEvent]struct{}),
		log:   logger,
		depth: 64,
	}
}

// Subscribe registers a subscriber and returns its channel + cancel.
func (b *Bus) Subscribe() (<-chan schema.SessionEvent, func()) {
	if b == nil {
		return nil, func() {}
	}
	ch := make(chan schema.SessionEvent, b.depth)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	count := len(b.subs)
	b.mu.Unlock()
	if b.log != nil {
		b.log.Debug("eventbus subscribe", "subs", count)
	}
	return ch, func() {
		// Close under the same lock that guards publishing so a
		// concurrent publish can never hit a closed channel.
		b.mu.Lock()
		if _, ok := b.subs[ch]; ok {
			delete(b.subs, ch)
			close(ch)
		}
		b.mu.Unlock()
		if b.log != nil {
			b.log.Debug("eventbus unsubscribe")
		}
	}
}

// OnSessionEvent publishes a session event to all subscribers. Sends
// happen under the subscriber lock; they never block, so holding it
// across the loop is cheap.
func (b *Bus) OnSessionEvent(event schema.SessionEvent) {
	if b == nil {
		return
	}
	dropped := 0
	b.mu.Lock()
	for sub := range b.subs {
		select {
		case sub <- event:
		default:
			dropped++
		}
	}
	b.mu.Unlock()
	if dropped > 0 && b.log != nil {
		b.log.Trace("eventbus dropped", "count", dropped)
	}
}
