package arbor

import (
	"context"
	"io"
	"log/slog"

	"github.com/aretw0/arbor/internal/compiler"
	"github.com/aretw0/arbor/internal/runtime"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/observability"
	"github.com/aretw0/arbor/pkg/ports"
	"github.com/aretw0/arbor/pkg/schema"
)

// Engine is the high-level entry point for the Arbor library. It wraps
// the internal runtime with a simplified API for integrators.
type Engine struct {
	rt *runtime.Engine
}

// Option configures an Engine.
type Option func(*engineConfig)

type engineConfig struct {
	opts []runtime.EngineOption
}

// WithLogger sets a structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(c *engineConfig) {
		c.opts = append(c.opts, runtime.WithLogger(logger))
	}
}

// WithPublisher attaches a debug snapshot publisher. Every successful
// Update serializes the active stack and publishes it.
func WithPublisher(pub ports.DebugPublisher) Option {
	return func(c *engineConfig) {
		c.opts = append(c.opts, runtime.WithPublisher(pub))
	}
}

// WithMetrics attaches Prometheus instrumentation.
func WithMetrics(m *observability.Metrics) Option {
	return func(c *engineConfig) {
		c.opts = append(c.opts, runtime.WithMetrics(m))
	}
}

// WithLifecycleHooks registers push/pop observability callbacks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(c *engineConfig) {
		c.opts = append(c.opts, runtime.WithLifecycleHooks(hooks))
	}
}

// New creates an engine over a compiled tree. The binder supplies the
// behavior implementations; use registry.Registry.Binder for the common
// case.
func New(tree *domain.Tree, binder ports.Binder, opts ...Option) *Engine {
	cfg := &engineConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	return &Engine{rt: runtime.NewEngine(tree, binder, cfg.opts...)}
}

// Start roots the active stack at the tree's root element.
func (e *Engine) Start(ctx context.Context) error {
	return e.rt.Start(ctx)
}

// SetStartElement resets the active stack to exactly the given element.
func (e *Engine) SetStartElement(ctx context.Context, el domain.Element) error {
	return e.rt.SetStartElement(ctx, el)
}

// Update runs one control tick; see the runtime engine for the
// re-evaluation semantics.
func (e *Engine) Update(ctx context.Context, reevaluate bool) error {
	return e.rt.Update(ctx, reevaluate)
}

// Push appends an element to the stack without decision logic.
func (e *Engine) Push(el domain.Element, reason string) error {
	return e.rt.Push(el, reason)
}

// Stack returns a copy of the active path, root first.
func (e *Engine) Stack() []domain.StackEntry {
	return e.rt.Stack()
}

// Snapshot serializes the active stack into the mirroring wire format.
func (e *Engine) Snapshot() *schema.Record {
	return e.rt.Snapshot()
}

// Valid reports whether the engine holds an active stack. It makes the
// engine satisfy the same observation interface as mirror.Replica.
func (e *Engine) Valid() bool {
	return len(e.rt.Stack()) > 0
}

// Tree returns the compiled tree the engine executes.
func (e *Engine) Tree() *domain.Tree {
	return e.rt.Tree()
}

// Close finalizes all stacked elements and releases the publisher.
// Idempotent.
func (e *Engine) Close() error {
	return e.rt.Close(context.Background())
}

// ParseFiles compiles one or more definition files into a tree.
func ParseFiles(paths ...string) (*domain.Tree, error) {
	p := compiler.NewParser()
	for _, path := range paths {
		if err := p.ParseFile(path); err != nil {
			return nil, err
		}
	}
	return p.Compile()
}

// ParseReader compiles a single definition source. The name is used in
// error positions.
func ParseReader(r io.Reader, name string) (*domain.Tree, error) {
	p := compiler.NewParser()
	if err := p.Parse(r, name); err != nil {
		return nil, err
	}
	return p.Compile()
}
