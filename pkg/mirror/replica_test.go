package mirror_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/arbor/internal/adapters/memory"
	"github.com/aretw0/arbor/internal/compiler"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/mirror"
	"github.com/aretw0/arbor/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDefinition = `
$Root
    IDLE --> @Wait
    WORK --> $WorkDecision
        FIRST --> @FirstTask
        SECOND --> @SecondTask
    SEQ --> @StepOne, @StepTwo
`

func compileTree(t *testing.T) *domain.Tree {
	t.Helper()
	p := compiler.NewParser()
	require.NoError(t, p.Parse(strings.NewReader(testDefinition), "test"))
	tree, err := p.Compile()
	require.NoError(t, err)
	return tree
}

func encode(t *testing.T, rec *schema.Record) []byte {
	t.Helper()
	data, err := rec.Marshal()
	require.NoError(t, err)
	return data
}

func strp(s string) *string { return &s }

func TestReplica_RebuildsPath(t *testing.T) {
	replica := mirror.New(compileTree(t), nil)

	msg := encode(t, &schema.Record{
		Type: domain.KindDecision,
		Next: &schema.Record{
			Type:             domain.KindDecision,
			ActivationReason: strp("WORK"),
			Next: &schema.Record{
				Type:             domain.KindAction,
				ActivationReason: strp("FIRST"),
				DebugData:        map[string]any{"progress": 0.25},
			},
		},
	})
	require.NoError(t, replica.Apply(msg))

	require.True(t, replica.Valid())
	stack := replica.Stack()
	require.Len(t, stack, 3)
	assert.Equal(t, "Root", stack[0].Element.Name())
	assert.Equal(t, "", stack[0].Reason)
	assert.Equal(t, "WorkDecision", stack[1].Element.Name())
	assert.Equal(t, "WORK", stack[1].Reason)
	assert.Equal(t, "FirstTask", stack[2].Element.Name())
	assert.Equal(t, "FIRST", stack[2].Reason)
	assert.Equal(t, map[string]any{"progress": 0.25}, stack[2].Debug)
}

func TestReplica_SequenceContent(t *testing.T) {
	replica := mirror.New(compileTree(t), nil)

	msg := encode(t, &schema.Record{
		Type: domain.KindDecision,
		Next: &schema.Record{
			Type:             domain.KindSequence,
			ActivationReason: strp("SEQ"),
			Content: []schema.ContentRecord{
				{DebugData: "running"},
				{DebugData: nil},
			},
		},
	})
	require.NoError(t, replica.Apply(msg))

	stack := replica.Stack()
	require.Len(t, stack, 2)
	seq, ok := stack[1].Element.(*domain.Sequence)
	require.True(t, ok)
	assert.Equal(t, "running", seq.Actions()[0].DebugData())
	assert.Nil(t, seq.Actions()[1].DebugData())
}

func TestReplica_RoundTrip(t *testing.T) {
	replica := mirror.New(compileTree(t), nil)

	msg := encode(t, &schema.Record{
		Type: domain.KindDecision,
		Next: &schema.Record{
			Type:             domain.KindAction,
			ActivationReason: strp("IDLE"),
		},
	})
	require.NoError(t, replica.Apply(msg))

	// Re-serializing the reconstructed stack reproduces the structure.
	rec := replica.Snapshot()
	require.NotNil(t, rec)
	assert.Equal(t, 2, rec.Depth())
	assert.Equal(t, domain.KindDecision, rec.Type)
	require.NotNil(t, rec.Next.ActivationReason)
	assert.Equal(t, "IDLE", *rec.Next.ActivationReason)
}

func TestReplica_AbstractElementRejected(t *testing.T) {
	replica := mirror.New(compileTree(t), nil)

	msg := encode(t, &schema.Record{
		Type: domain.KindDecision,
		Next: &schema.Record{
			Type:             domain.KindAbstract,
			ActivationReason: strp("IDLE"),
		},
	})
	err := replica.Apply(msg)
	assert.ErrorIs(t, err, schema.ErrAbstractElement)
	assert.False(t, replica.Valid())
	assert.Nil(t, replica.Stack())
}

func TestReplica_PastLeafRejected(t *testing.T) {
	replica := mirror.New(compileTree(t), nil)

	msg := encode(t, &schema.Record{
		Type: domain.KindDecision,
		Next: &schema.Record{
			Type:             domain.KindAction,
			ActivationReason: strp("IDLE"),
			Next: &schema.Record{
				Type:             domain.KindAction,
				ActivationReason: strp("DEEPER"),
			},
		},
	})
	err := replica.Apply(msg)
	assert.ErrorIs(t, err, schema.ErrPastLeaf)
	assert.False(t, replica.Valid())
}

func TestReplica_UnknownReasonRejected(t *testing.T) {
	replica := mirror.New(compileTree(t), nil)

	msg := encode(t, &schema.Record{
		Type: domain.KindDecision,
		Next: &schema.Record{
			Type:             domain.KindAction,
			ActivationReason: strp("NEVER_DECLARED"),
		},
	})
	err := replica.Apply(msg)

	var unknownErr *schema.UnknownReasonError
	require.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, "Root", unknownErr.Element)
	assert.Equal(t, "NEVER_DECLARED", unknownErr.Reason)
	assert.False(t, replica.Valid())
}

func TestReplica_MalformedPayloadInvalidates(t *testing.T) {
	replica := mirror.New(compileTree(t), nil)

	good := encode(t, &schema.Record{
		Type: domain.KindDecision,
		Next: &schema.Record{
			Type:             domain.KindAction,
			ActivationReason: strp("IDLE"),
		},
	})
	require.NoError(t, replica.Apply(good))
	require.True(t, replica.Valid())

	// A broken message wipes the state instead of keeping a stale stack.
	require.Error(t, replica.Apply([]byte("{not json")))
	assert.False(t, replica.Valid())
	assert.Nil(t, replica.Snapshot())

	// The next well-formed message restores it.
	require.NoError(t, replica.Apply(good))
	assert.True(t, replica.Valid())
}

func TestReplica_IdenticalMessageSkipsRebuild(t *testing.T) {
	replica := mirror.New(compileTree(t), nil)

	msg := encode(t, &schema.Record{
		Type: domain.KindDecision,
		Next: &schema.Record{
			Type:             domain.KindAction,
			ActivationReason: strp("IDLE"),
		},
	})
	require.NoError(t, replica.Apply(msg))
	before := replica.Stack()

	// Byte-identical repeat is a no-op, including debug payloads.
	require.NoError(t, replica.Apply(msg))
	after := replica.Stack()
	require.Len(t, after, len(before))
	assert.Same(t, before[0].Element, after[0].Element)
}

func TestReplica_ConcurrentApplyAndStack(t *testing.T) {
	replica := mirror.New(compileTree(t), nil)

	// Two distinct snapshots so every apply rewrites the debug slots.
	msgs := [][]byte{
		encode(t, &schema.Record{
			Type: domain.KindDecision,
			Next: &schema.Record{
				Type:             domain.KindAction,
				ActivationReason: strp("IDLE"),
				DebugData:        map[string]any{"idle_for": 1},
			},
		}),
		encode(t, &schema.Record{
			Type: domain.KindDecision,
			Next: &schema.Record{
				Type:             domain.KindAction,
				ActivationReason: strp("IDLE"),
				DebugData:        map[string]any{"idle_for": 2},
			},
		}),
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 500; i++ {
			assert.NoError(t, replica.Apply(msgs[i%2]))
		}
	}()

	// Reading captured payloads while the writer churns must be safe
	// under the race detector.
	for alive := true; alive; {
		select {
		case <-done:
			alive = false
		default:
		}
		for _, entry := range replica.Stack() {
			_ = entry.Debug
		}
	}

	stack := replica.Stack()
	require.Len(t, stack, 2)
	assert.Contains(t, []any{
		map[string]any{"idle_for": float64(1)},
		map[string]any{"idle_for": float64(2)},
	}, stack[1].Debug)
}

func TestReplica_ConsumesSubscription(t *testing.T) {
	tree := compileTree(t)
	bus := memory.NewBus()
	sub := bus.Subscribe()
	replica := mirror.New(tree, sub)
	defer replica.Close()

	msg := encode(t, &schema.Record{
		Type: domain.KindDecision,
		Next: &schema.Record{
			Type:             domain.KindAction,
			ActivationReason: strp("IDLE"),
		},
	})
	require.NoError(t, bus.Publish(context.Background(), msg))

	require.Eventually(t, replica.Valid, time.Second, 5*time.Millisecond)
	stack := replica.Stack()
	require.Len(t, stack, 2)
	assert.Equal(t, "Wait", stack[1].Element.Name())

	// Closing the bus ends the consumer.
	require.NoError(t, bus.Close())
	select {
	case <-replica.Done():
	case <-time.After(time.Second):
		t.Fatal("consumer did not stop after the bus closed")
	}
}

func TestReplica_CloseIsIdempotent(t *testing.T) {
	bus := memory.NewBus()
	replica := mirror.New(compileTree(t), bus.Subscribe())

	require.NoError(t, replica.Close())
	require.NoError(t, replica.Close())
	assert.False(t, replica.Valid())
}
