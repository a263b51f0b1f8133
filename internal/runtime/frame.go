package runtime

import (
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/ports"
)

// frame is one level of the active stack together with its runtime
// bindings. The element and reason are what mirroring exposes; the rest
// is engine-private.
type frame struct {
	element domain.Element
	reason  string

	// decider is set for decision elements (nil under a nil-binding
	// binder, i.e. a mirroring replica).
	decider ports.Decider
	// lastResult is the label the decider returned on the previous
	// tick, reused when a caller updates without re-arbitrating.
	lastResult string

	// actor is set for action elements.
	actor ports.Actor

	// actors and seqPos drive sequence elements: one actor per action,
	// executed in order.
	actors []ports.Actor
	seqPos int
}

func (f *frame) entry() domain.StackEntry {
	return domain.StackEntry{
		Element: f.element,
		Reason:  f.reason,
		Debug:   f.element.DebugData(),
	}
}

// bindings returns every behavior instantiated for this frame, in the
// order their exit hooks should run.
func (f *frame) bindings() []any {
	var out []any
	if f.decider != nil {
		out = append(out, f.decider)
	}
	if f.actor != nil {
		out = append(out, f.actor)
	}
	for _, a := range f.actors {
		if a != nil {
			out = append(out, a)
		}
	}
	return out
}
