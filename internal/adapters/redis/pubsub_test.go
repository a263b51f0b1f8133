package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPubSub_RoundTrip(t *testing.T) {
	srv := miniredis.RunT(t)
	ctx := context.Background()

	sub, err := NewSubscriber(ctx, srv.Addr())
	require.NoError(t, err)
	defer sub.Close()

	pub := NewPublisher(srv.Addr())
	defer pub.Close()

	require.NoError(t, pub.Publish(ctx, []byte(`{"type":"action"}`)))

	select {
	case msg := <-sub.Messages():
		assert.Equal(t, []byte(`{"type":"action"}`), msg)
	case <-time.After(2 * time.Second):
		t.Fatal("snapshot never arrived")
	}
}

func TestPubSub_CustomChannel(t *testing.T) {
	srv := miniredis.RunT(t)
	ctx := context.Background()

	sub, err := NewSubscriber(ctx, srv.Addr(), WithChannel("robot:left"))
	require.NoError(t, err)
	defer sub.Close()

	other := NewPublisher(srv.Addr(), WithChannel("robot:right"))
	defer other.Close()
	matching := NewPublisher(srv.Addr(), WithChannel("robot:left"))
	defer matching.Close()

	require.NoError(t, other.Publish(ctx, []byte("wrong")))
	require.NoError(t, matching.Publish(ctx, []byte("right")))

	select {
	case msg := <-sub.Messages():
		assert.Equal(t, []byte("right"), msg)
	case <-time.After(2 * time.Second):
		t.Fatal("snapshot never arrived")
	}
}

func TestSubscriber_ConnectFailureSurfaces(t *testing.T) {
	_, err := NewSubscriber(context.Background(), "127.0.0.1:1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to subscribe")
}

func TestSubscriber_CloseUnblocksUndrainedStream(t *testing.T) {
	srv := miniredis.RunT(t)
	ctx := context.Background()

	sub, err := NewSubscriber(ctx, srv.Addr())
	require.NoError(t, err)

	pub := NewPublisher(srv.Addr())
	defer pub.Close()

	// Overfill the subscriber buffer without ever draining it.
	for i := 0; i < 64; i++ {
		require.NoError(t, pub.Publish(ctx, []byte("snapshot")))
	}
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, sub.Close())

	// The stream still terminates: remaining buffered snapshots drain
	// and the channel closes instead of the pump hanging on a send.
	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, open := <-sub.Messages():
			if !open {
				return
			}
		case <-deadline:
			t.Fatal("message channel never closed after Close")
		}
	}
}

func TestSubscriber_CloseEndsStream(t *testing.T) {
	srv := miniredis.RunT(t)

	sub, err := NewSubscriber(context.Background(), srv.Addr())
	require.NoError(t, err)

	require.NoError(t, sub.Close())
	require.NoError(t, sub.Close())

	select {
	case _, open := <-sub.Messages():
		assert.False(t, open)
	case <-time.After(2 * time.Second):
		t.Fatal("message channel not closed")
	}
}
