package runtime

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/observability"
	"github.com/aretw0/arbor/pkg/ports"
)

// Engine is the stack-based executor. It owns the active root-to-leaf
// path through the tree and re-derives it on every Update call.
//
// The engine is single-threaded and cooperative: exactly one Update per
// control tick, driven by one goroutine. No internal locking.
type Engine struct {
	tree      *domain.Tree
	binder    ports.Binder
	stack     []*frame
	publisher ports.DebugPublisher
	logger    *slog.Logger
	metrics   *observability.Metrics
	hooks     domain.LifecycleHooks
	closed    bool
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets a structured logger. Defaults to a discard logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithPublisher attaches a debug snapshot publisher; every successful
// Update serializes the active stack and publishes it.
func WithPublisher(pub ports.DebugPublisher) EngineOption {
	return func(e *Engine) { e.publisher = pub }
}

// WithMetrics attaches Prometheus instrumentation.
func WithMetrics(m *observability.Metrics) EngineOption {
	return func(e *Engine) { e.metrics = m }
}

// WithLifecycleHooks registers push/pop observability callbacks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) { e.hooks = hooks }
}

// NewEngine creates an engine over a compiled tree. A nil binder yields
// a decision-free engine: the stack can be set and pushed to (for
// mirroring) but not ticked.
func NewEngine(tree *domain.Tree, binder ports.Binder, opts ...EngineOption) *Engine {
	e := &Engine{
		tree:   tree,
		binder: binder,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Tree returns the compiled tree the engine executes.
func (e *Engine) Tree() *domain.Tree { return e.tree }

// Stack returns a copy of the active path, root first.
func (e *Engine) Stack() []domain.StackEntry {
	out := make([]domain.StackEntry, len(e.stack))
	for i, f := range e.stack {
		out[i] = f.entry()
	}
	return out
}

// SetStartElement resets the active stack to exactly the given element,
// finalizing everything currently stacked. The element's behavior is
// instantiated lazily through the binder.
func (e *Engine) SetStartElement(ctx context.Context, el domain.Element) error {
	if e.closed {
		return domain.ErrClosed
	}
	e.truncate(ctx, 0)
	f, err := e.newFrame(el, "")
	if err != nil {
		return err
	}
	e.pushFrame(f)
	return nil
}

// Start roots the stack at the tree's root element.
func (e *Engine) Start(ctx context.Context) error {
	return e.SetStartElement(ctx, e.tree.Root())
}

// Push appends an element to the top of the stack without running any
// decision logic. It exists for stack reconstruction from an external
// description; the caller is responsible for parent/child consistency.
func (e *Engine) Push(el domain.Element, reason string) error {
	if e.closed {
		return domain.ErrClosed
	}
	if len(e.stack) == 0 {
		return domain.ErrNotStarted
	}
	f, err := e.newFrame(el, reason)
	if err != nil {
		return err
	}
	e.pushFrame(f)
	return nil
}

// Update runs one control tick. With reevaluate true every decision on
// the stack is re-invoked; with false the previously recorded results
// are reused so the current path continues without re-arbitrating
// (decisions that never decided yet are still invoked).
//
// The stale suffix of the stack is finalized bottom-up before any new
// element is pushed. A decider returning an undeclared label aborts the
// tick with *domain.UnknownResultError before anything is popped or
// pushed; the engine never picks an arbitrary branch.
func (e *Engine) Update(ctx context.Context, reevaluate bool) error {
	if e.closed {
		return domain.ErrClosed
	}
	if len(e.stack) == 0 {
		return domain.ErrNotStarted
	}

	if err := e.walk(ctx, reevaluate); err != nil {
		if e.metrics != nil {
			e.metrics.DecisionErrors.Inc()
		}
		return err
	}

	if e.metrics != nil {
		e.metrics.TicksTotal.Inc()
		e.metrics.StackDepth.Set(float64(len(e.stack)))
	}
	e.publish(ctx)
	return nil
}

// Close finalizes every element still on the stack and releases the
// publisher. Idempotent.
func (e *Engine) Close(ctx context.Context) error {
	if e.closed {
		return nil
	}
	e.closed = true
	e.truncate(ctx, 0)
	if e.publisher != nil {
		if err := e.publisher.Close(); err != nil {
			return fmt.Errorf("failed to close publisher: %w", err)
		}
	}
	return nil
}

// walk descends from the root, reusing the existing stack where the
// decision outcomes are unchanged and rebuilding the suffix where they
// diverge. It stops after executing the active leaf.
func (e *Engine) walk(ctx context.Context, reevaluate bool) error {
	i := 0
	for {
		f := e.stack[i]
		switch el := f.element.(type) {
		case *domain.Decision:
			result := f.lastResult
			if reevaluate || result == "" {
				if f.decider == nil {
					return fmt.Errorf("decision %q has no bound behavior", el.Name())
				}
				r, err := f.decider.Decide(ctx)
				if err != nil {
					return fmt.Errorf("decision %q failed: %w", el.Name(), err)
				}
				if _, ok := el.Child(r); !ok {
					return &domain.UnknownResultError{Element: el.Name(), Result: r, Labels: el.Labels()}
				}
				result = r
			}
			f.lastResult = result
			e.captureDebug(f.decider, el)

			child, _ := el.Child(result)
			if i+1 < len(e.stack) && e.stack[i+1].element == child && e.stack[i+1].reason == result {
				i++
				continue
			}

			// Divergence: finalize the stale suffix before pushing the
			// newly selected child.
			e.truncate(ctx, i+1)
			nf, err := e.newFrame(child, result)
			if err != nil {
				return err
			}
			e.pushFrame(nf)
			i++

		case *domain.Action:
			if f.actor == nil {
				return fmt.Errorf("action %q has no bound behavior", el.Name())
			}
			if err := f.actor.Act(ctx); err != nil {
				return fmt.Errorf("action %q failed: %w", el.Name(), err)
			}
			e.captureDebug(f.actor, el)
			return nil

		case *domain.Sequence:
			return e.tickSequence(ctx, i, f, el)

		default:
			return fmt.Errorf("element %q has unsupported kind %q", f.element.Name(), f.element.Kind())
		}
	}
}

// tickSequence executes the sequence's current action and advances its
// internal position when the action reports completion. An exhausted
// sequence pops itself; the parent decision re-decides on the next tick
// regardless of the caller's reevaluate flag.
func (e *Engine) tickSequence(ctx context.Context, i int, f *frame, el *domain.Sequence) error {
	if f.seqPos < len(f.actors) {
		actor := f.actors[f.seqPos]
		actEl := el.Actions()[f.seqPos]
		if actor == nil {
			return fmt.Errorf("sequence action %q has no bound behavior", actEl.Name())
		}
		if err := actor.Act(ctx); err != nil {
			return fmt.Errorf("sequence action %q failed: %w", actEl.Name(), err)
		}
		e.captureDebug(actor, actEl)

		if c, ok := actor.(ports.Completable); ok && c.Done() {
			f.seqPos++
		}
	}

	if f.seqPos >= len(f.actors) {
		e.logger.Debug("sequence complete", "element", el.Name())
		e.truncate(ctx, i)
		if i > 0 {
			e.stack[i-1].lastResult = ""
		}
	}
	return nil
}

// newFrame instantiates the behaviors for an element about to be pushed.
func (e *Engine) newFrame(el domain.Element, reason string) (*frame, error) {
	f := &frame{element: el, reason: reason}
	if e.binder == nil {
		return f, nil
	}

	switch v := el.(type) {
	case *domain.Decision:
		d, err := e.binder.BindDecider(v)
		if err != nil {
			return nil, fmt.Errorf("failed to bind decision %q: %w", v.Name(), err)
		}
		f.decider = d
	case *domain.Action:
		a, err := e.binder.BindActor(v)
		if err != nil {
			return nil, fmt.Errorf("failed to bind action %q: %w", v.Name(), err)
		}
		f.actor = a
	case *domain.Sequence:
		f.actors = make([]ports.Actor, len(v.Actions()))
		for i, actEl := range v.Actions() {
			a, err := e.binder.BindActor(actEl)
			if err != nil {
				return nil, fmt.Errorf("failed to bind sequence action %q: %w", actEl.Name(), err)
			}
			f.actors[i] = a
		}
	}
	return f, nil
}

func (e *Engine) pushFrame(f *frame) {
	e.stack = append(e.stack, f)
	depth := len(e.stack) - 1
	e.logger.Debug("element pushed", "element", f.element.Name(), "reason", f.reason, "depth", depth)
	if e.metrics != nil {
		e.metrics.PushesTotal.Inc()
	}
	if e.hooks.OnPush != nil {
		e.hooks.OnPush(f.entry(), depth)
	}
}

// truncate pops and finalizes every frame at depth >= k, top first.
// Exit hooks are mandatory: they run even when the caller is about to
// fail, so behaviors never leak a held resource.
func (e *Engine) truncate(ctx context.Context, k int) {
	for i := len(e.stack) - 1; i >= k; i-- {
		f := e.stack[i]
		for _, binding := range f.bindings() {
			if ex, ok := binding.(ports.Exiter); ok {
				ex.Exit(ctx)
			}
		}
		e.logger.Debug("element popped", "element", f.element.Name(), "depth", i)
		if e.metrics != nil {
			e.metrics.PopsTotal.Inc()
		}
		if e.hooks.OnPop != nil {
			e.hooks.OnPop(f.entry(), i)
		}
	}
	e.stack = e.stack[:k]
}

func (e *Engine) captureDebug(binding any, el domain.Element) {
	if dr, ok := binding.(ports.DebugReporter); ok {
		el.SetDebugData(dr.DebugData())
	}
}

func (e *Engine) publish(ctx context.Context) {
	if e.publisher == nil {
		return
	}
	rec := e.Snapshot()
	if rec == nil {
		return
	}
	data, err := rec.Marshal()
	if err != nil {
		e.logger.Error("failed to serialize debug snapshot", "err", err)
		return
	}
	if err := e.publisher.Publish(ctx, data); err != nil {
		e.logger.Error("failed to publish debug snapshot", "err", err)
		if e.metrics != nil {
			e.metrics.PublishFailures.Inc()
		}
	}
}
