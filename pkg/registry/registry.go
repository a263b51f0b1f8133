// Package registry maps tree element names to the behavior
// implementations the integrator supplies. A Registry combined with a
// blackboard implements the engine's Binder port.
package registry

import (
	"fmt"
	"sync"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/ports"
)

// Invocation carries everything a behavior factory needs: the shared
// blackboard (the integrator's context object) and the literal
// parameters declared for the element in the definition.
type Invocation struct {
	Blackboard any
	Element    string
	Params     map[string]string
}

// DeciderFactory constructs the decider bound to a decision name.
type DeciderFactory func(inv Invocation) (ports.Decider, error)

// ActorFactory constructs the actor bound to an action name.
type ActorFactory func(inv Invocation) (ports.Actor, error)

// Registry manages the available behavior implementations.
type Registry struct {
	mu       sync.RWMutex
	deciders map[string]DeciderFactory
	actors   map[string]ActorFactory
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		deciders: make(map[string]DeciderFactory),
		actors:   make(map[string]ActorFactory),
	}
}

// RegisterDecider adds a decider factory under a decision name.
// An existing factory with the same name is overwritten.
func (r *Registry) RegisterDecider(name string, factory DeciderFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deciders[name] = factory
}

// RegisterActor adds an actor factory under an action name.
// An existing factory with the same name is overwritten.
func (r *Registry) RegisterActor(name string, factory ActorFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actors[name] = factory
}

// HasDecider reports whether a decider is registered for the name.
func (r *Registry) HasDecider(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.deciders[name]
	return ok
}

// HasActor reports whether an actor is registered for the name.
func (r *Registry) HasActor(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.actors[name]
	return ok
}

// Binder pairs the registry with a blackboard, yielding the factory the
// engine uses to instantiate behaviors lazily as elements are pushed.
func (r *Registry) Binder(blackboard any) ports.Binder {
	return &binder{registry: r, blackboard: blackboard}
}

type binder struct {
	registry   *Registry
	blackboard any
}

func (b *binder) BindDecider(el *domain.Decision) (ports.Decider, error) {
	b.registry.mu.RLock()
	factory, ok := b.registry.deciders[el.Name()]
	b.registry.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("no decider registered for %q", el.Name())
	}
	return factory(Invocation{Blackboard: b.blackboard, Element: el.Name()})
}

func (b *binder) BindActor(el *domain.Action) (ports.Actor, error) {
	b.registry.mu.RLock()
	factory, ok := b.registry.actors[el.Name()]
	b.registry.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("no actor registered for %q", el.Name())
	}
	return factory(Invocation{Blackboard: b.blackboard, Element: el.Name(), Params: el.Params()})
}
