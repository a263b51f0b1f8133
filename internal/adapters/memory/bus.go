// Package memory provides an in-process snapshot bus. It is the
// default transport for tests and for embedding producer and replica in
// the same process.
package memory

import (
	"context"
	"sync"
)

// Bus fans snapshots out to in-process subscribers. Subscriber channels
// are buffered; a slow subscriber loses intermediate snapshots rather
// than blocking the engine tick, which is safe because every snapshot
// is complete.
type Bus struct {
	mu     sync.Mutex
	subs   map[*Subscriber]struct{}
	closed bool
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[*Subscriber]struct{})}
}

// Publish delivers one snapshot to every current subscriber.
func (b *Bus) Publish(_ context.Context, payload []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	for sub := range b.subs {
		select {
		case sub.ch <- payload:
		default:
			// Subscriber lagging; it catches up on the next snapshot.
		}
	}
	return nil
}

// Subscribe registers a new subscriber.
func (b *Bus) Subscribe() *Subscriber {
	b.mu.Lock()
	defer b.mu.Unlock()
	sub := &Subscriber{bus: b, ch: make(chan []byte, 16)}
	if b.closed {
		close(sub.ch)
		return sub
	}
	b.subs[sub] = struct{}{}
	return sub
}

// Close detaches and closes every subscriber. Idempotent.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	for sub := range b.subs {
		close(sub.ch)
		delete(b.subs, sub)
	}
	return nil
}

// Subscriber is one receiver on a Bus.
type Subscriber struct {
	bus  *Bus
	ch   chan []byte
	once sync.Once
}

// Messages returns the subscriber's snapshot channel.
func (s *Subscriber) Messages() <-chan []byte { return s.ch }

// Close detaches the subscriber from the bus. Idempotent.
func (s *Subscriber) Close() error {
	s.once.Do(func() {
		s.bus.mu.Lock()
		defer s.bus.mu.Unlock()
		if _, attached := s.bus.subs[s]; attached {
			delete(s.bus.subs, s)
			close(s.ch)
		}
	})
	return nil
}
