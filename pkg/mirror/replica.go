package mirror

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/aretw0/arbor/internal/runtime"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/ports"
	"github.com/aretw0/arbor/pkg/schema"
)

// Replica is a decision-free shadow of a remote engine. It shares the
// tree model with the producer (compiled from the same definition) but
// binds no behaviors; its stack is driven purely by received snapshots.
type Replica struct {
	engine *runtime.Engine
	sub    ports.DebugSubscriber
	logger *slog.Logger

	mu     sync.Mutex
	cached []byte
	valid  bool

	closeOnce sync.Once
	closeErr  error
	done      chan struct{}
}

// Option configures a Replica.
type Option func(*Replica)

// WithLogger sets a structured logger. Defaults to a discard logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Replica) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New creates a replica over the given tree. If sub is non-nil the
// replica consumes its messages in the background until Close is called
// or the subscription's channel is closed.
func New(tree *domain.Tree, sub ports.DebugSubscriber, opts ...Option) *Replica {
	r := &Replica{
		engine: runtime.NewEngine(tree, nil),
		sub:    sub,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	if sub != nil {
		go r.consume()
	} else {
		close(r.done)
	}
	return r
}

func (r *Replica) consume() {
	defer close(r.done)
	for msg := range r.sub.Messages() {
		if err := r.Apply(msg); err != nil {
			r.logger.Warn("discarding invalid snapshot", "err", err)
		}
	}
}

// Apply processes one snapshot payload. Byte-identical repeats of the
// last accepted message are ignored. On failure the replica's state is
// invalidated until a well-formed message arrives.
func (r *Replica) Apply(msg []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cached != nil && bytes.Equal(r.cached, msg) {
		return nil
	}

	rec, err := schema.Unmarshal(msg)
	if err != nil {
		r.valid = false
		return fmt.Errorf("failed to decode snapshot: %w", err)
	}
	if err := r.rebuild(rec); err != nil {
		r.valid = false
		return err
	}

	r.cached = bytes.Clone(msg)
	r.valid = true
	return nil
}

// rebuild replaces the shadow stack with the path the record describes.
func (r *Replica) rebuild(rec *schema.Record) error {
	if rec.Type == domain.KindAbstract {
		return schema.ErrAbstractElement
	}

	ctx := context.Background()
	root := r.engine.Tree().Root()
	if err := r.engine.SetStartElement(ctx, root); err != nil {
		return err
	}
	applyDebug(root, rec)

	parent := root
	for cur := rec.Next; cur != nil; cur = cur.Next {
		if cur.Type == domain.KindAbstract {
			return schema.ErrAbstractElement
		}

		decision, ok := parent.(*domain.Decision)
		if !ok {
			// The remote stack claims to extend below a leaf.
			return schema.ErrPastLeaf
		}

		reason := ""
		if cur.ActivationReason != nil {
			reason = *cur.ActivationReason
		}
		child, ok := decision.Child(reason)
		if !ok {
			return &schema.UnknownReasonError{Element: decision.Name(), Reason: reason}
		}

		applyDebug(child, cur)
		if err := r.engine.Push(child, reason); err != nil {
			return err
		}
		parent = child
	}
	return nil
}

// applyDebug copies the record's debug payload onto the local element.
// Sequence records carry one payload per action.
func applyDebug(el domain.Element, rec *schema.Record) {
	if seq, ok := el.(*domain.Sequence); ok && rec.Content != nil {
		actions := seq.Actions()
		for i, content := range rec.Content {
			if i >= len(actions) {
				break
			}
			actions[i].SetDebugData(content.DebugData)
		}
		return
	}
	el.SetDebugData(rec.DebugData)
}

// Valid reports whether the replica currently holds a reconstructed
// stack. It is false before the first message and after a malformed one.
func (r *Replica) Valid() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.valid
}

// Stack returns the reconstructed path, or nil when no valid state is
// held. Debug payloads are captured into the entries while the lock is
// held; callers must read them from the entries, not through the shared
// elements, which the consumer goroutine keeps rewriting.
func (r *Replica) Stack() []domain.StackEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.valid {
		return nil
	}
	return r.engine.Stack()
}

// Snapshot re-serializes the reconstructed stack, or nil when no valid
// state is held.
func (r *Replica) Snapshot() *schema.Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.valid {
		return nil
	}
	return r.engine.Snapshot()
}

// Tree returns the replica's copy of the compiled tree.
func (r *Replica) Tree() *domain.Tree {
	return r.engine.Tree()
}

// Done is closed once the background consumer has stopped.
func (r *Replica) Done() <-chan struct{} { return r.done }

// Close releases the subscription and the shadow stack. Idempotent.
func (r *Replica) Close() error {
	r.closeOnce.Do(func() {
		if r.sub != nil {
			r.closeErr = r.sub.Close()
		}
		r.mu.Lock()
		defer r.mu.Unlock()
		r.valid = false
		_ = r.engine.Close(context.Background())
	})
	return r.closeErr
}
