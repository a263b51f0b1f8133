// Package redis carries debug snapshots between processes over a redis
// pub/sub channel, so a visualization replica can run on a different
// host than the robot.
package redis

import (
	"context"
	"fmt"
	"sync"

	backend "github.com/redis/go-redis/v9"
)

const defaultChannel = "arbor:debug"

// Publisher implements ports.DebugPublisher over redis pub/sub.
type Publisher struct {
	client  *backend.Client
	channel string
	owned   bool
}

// Option configures a Publisher or Subscriber.
type Option func(*options)

type options struct {
	channel string
}

// WithChannel overrides the pub/sub channel name.
func WithChannel(channel string) Option {
	return func(o *options) {
		if channel != "" {
			o.channel = channel
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{channel: defaultChannel}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// NewPublisher connects to redis at the given address.
func NewPublisher(address string, opts ...Option) *Publisher {
	client := backend.NewClient(&backend.Options{Addr: address})
	pub := NewPublisherFromClient(client, opts...)
	pub.owned = true
	return pub
}

// NewPublisherFromClient wraps an existing client. The caller keeps
// ownership of the client; Close does not release it.
func NewPublisherFromClient(client *backend.Client, opts ...Option) *Publisher {
	o := buildOptions(opts)
	return &Publisher{client: client, channel: o.channel}
}

// Publish sends one snapshot on the channel.
func (p *Publisher) Publish(ctx context.Context, payload []byte) error {
	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", p.channel, err)
	}
	return nil
}

// Close releases the client if the publisher owns it. Idempotent.
func (p *Publisher) Close() error {
	if !p.owned {
		return nil
	}
	return p.client.Close()
}

// Subscriber implements ports.DebugSubscriber over redis pub/sub.
type Subscriber struct {
	client *backend.Client
	pubsub *backend.PubSub
	ch     chan []byte
	done   chan struct{}
	owned  bool
	once   sync.Once
}

// NewSubscriber connects to redis at the given address and subscribes.
func NewSubscriber(ctx context.Context, address string, opts ...Option) (*Subscriber, error) {
	client := backend.NewClient(&backend.Options{Addr: address})
	sub, err := NewSubscriberFromClient(ctx, client, opts...)
	if err != nil {
		client.Close()
		return nil, err
	}
	sub.owned = true
	return sub, nil
}

// NewSubscriberFromClient subscribes on an existing client. The caller
// keeps ownership of the client.
func NewSubscriberFromClient(ctx context.Context, client *backend.Client, opts ...Option) (*Subscriber, error) {
	o := buildOptions(opts)
	pubsub := client.Subscribe(ctx, o.channel)

	// Force the subscription to be established so failures surface
	// here instead of as a silently empty stream.
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", o.channel, err)
	}

	sub := &Subscriber{
		client: client,
		pubsub: pubsub,
		ch:     make(chan []byte, 16),
		done:   make(chan struct{}),
	}
	go sub.pump()
	return sub, nil
}

func (s *Subscriber) pump() {
	defer close(s.ch)
	for msg := range s.pubsub.Channel() {
		// The done guard keeps Close from leaking the pump when the
		// owner stopped draining Messages.
		select {
		case s.ch <- []byte(msg.Payload):
		case <-s.done:
			return
		}
	}
}

// Messages returns the snapshot channel. It is closed when the
// subscriber is closed or the connection drops.
func (s *Subscriber) Messages() <-chan []byte { return s.ch }

// Close releases the subscription (and the client if owned). Idempotent.
func (s *Subscriber) Close() error {
	var err error
	s.once.Do(func() {
		close(s.done)
		err = s.pubsub.Close()
		if s.owned {
			if cerr := s.client.Close(); err == nil {
				err = cerr
			}
		}
	})
	return err
}
