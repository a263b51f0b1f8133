package ports

import (
	"context"

	"github.com/aretw0/arbor/pkg/domain"
)

// Decider is the behavior bound to a decision element. It is invoked
// every tick while its element is on the stack and must return one of
// the element's declared result labels. Implementations are expected to
// return promptly; long-running work belongs in the blackboard, polled
// across ticks.
type Decider interface {
	Decide(ctx context.Context) (string, error)
}

// Actor is the behavior bound to an action element. Act is invoked once
// per tick while the action is the active leaf.
type Actor interface {
	Act(ctx context.Context) error
}

// Completable is implemented by actors that participate in sequences.
// The engine polls Done after each Act to decide whether to advance to
// the next action. Actors that never complete may omit it; a sequence
// then stays on that action until the parent decision switches away.
type Completable interface {
	Done() bool
}

// Exiter is implemented by behaviors that hold resources. Exit runs
// exactly once when the element is popped off the stack, before any
// replacement element is pushed.
type Exiter interface {
	Exit(ctx context.Context)
}

// DebugReporter is implemented by behaviors that want their state
// mirrored to remote observers. The engine copies the returned payload
// into the element's debug data each tick the element is active.
type DebugReporter interface {
	DebugData() any
}

// Binder instantiates the behavior bound to a tree element. The engine
// binds lazily: an element's behavior is created when the element is
// first pushed, and discarded when it is popped.
//
// A decision-free replica (mirroring consumer) uses a binder that
// returns nil bindings; such an engine can hold a stack but not tick it.
type Binder interface {
	BindDecider(el *domain.Decision) (Decider, error)
	BindActor(el *domain.Action) (Actor, error)
}
