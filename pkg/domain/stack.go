package domain

// StackEntry is one level of the active path. Consecutive entries are
// parent and child in the tree; index 0 is the root.
type StackEntry struct {
	// Element is the tree element occupying this stack level.
	Element Element

	// Reason is the result label that caused the parent decision to
	// select this element. Empty for the root.
	Reason string

	// Debug is the element's debug payload captured when the listing
	// was taken. Readers outside the stack owner's goroutine must use
	// it instead of reaching through Element, whose payload slot the
	// owner keeps mutating.
	Debug any
}

// LifecycleHooks defines optional callbacks for engine observability.
// They fire in addition to (not instead of) behavior exit hooks.
type LifecycleHooks struct {
	// OnPush fires after an element is pushed onto the active stack.
	OnPush func(entry StackEntry, depth int)
	// OnPop fires after an element is popped and finalized.
	OnPop func(entry StackEntry, depth int)
}
