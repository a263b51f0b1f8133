package ports

import "context"

// DebugPublisher carries serialized stack snapshots from the
// authoritative engine to remote observers. Each payload is a complete
// snapshot, not a delta, so delivery may be lossy.
type DebugPublisher interface {
	// Publish sends one snapshot. Failures are reported but a caller is
	// free to keep ticking; the next snapshot supersedes this one.
	Publish(ctx context.Context, payload []byte) error

	// Close releases the underlying connection. Idempotent.
	Close() error
}

// DebugSubscriber is the consumer side of the snapshot stream.
type DebugSubscriber interface {
	// Messages returns the channel snapshots arrive on. The channel is
	// closed when the subscriber is closed or the transport drops.
	Messages() <-chan []byte

	// Close releases the subscription. Idempotent.
	Close() error
}
