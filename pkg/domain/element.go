package domain

// Kind constants identify the element variants of the tree.
const (
	// KindDecision selects one of several labeled children each tick.
	KindDecision = "decision"
	// KindAction is a leaf bound to a single executable behavior.
	KindAction = "action"
	// KindSequence executes an ordered list of actions to completion.
	KindSequence = "sequence"
	// KindAbstract marks an element of unknown variant. It never occurs
	// in a compiled tree; it exists so mirroring consumers can reject
	// malformed remote messages that claim it.
	KindAbstract = "abstract"
)

// Element is a node in the compiled behavior tree. The variant set is
// closed: Decision, Action and Sequence are the only implementations.
type Element interface {
	// Name returns the human-readable identifier of the element.
	Name() string
	// Kind returns one of the Kind constants.
	Kind() string
	// DebugData returns the payload last attached by the bound behavior.
	DebugData() any
	// SetDebugData overwrites the debug payload. This is the only
	// mutation allowed on a compiled tree.
	SetDebugData(data any)
}

// base carries the fields shared by all element variants.
type base struct {
	name      string
	debugData any
}

func (b *base) Name() string          { return b.name }
func (b *base) DebugData() any        { return b.debugData }
func (b *base) SetDebugData(data any) { b.debugData = data }

// Decision is an inner node whose bound decider picks one of its
// labeled children every tick.
type Decision struct {
	base
	children map[string]Element
	// labels preserves declaration order for deterministic rendering.
	labels []string
}

// NewDecision creates an empty decision element.
func NewDecision(name string) *Decision {
	return &Decision{
		base:     base{name: name},
		children: make(map[string]Element),
	}
}

func (d *Decision) Kind() string { return KindDecision }

// AddChild registers a child under a result label.
// Returns false if the label is already taken.
func (d *Decision) AddChild(label string, child Element) bool {
	if _, exists := d.children[label]; exists {
		return false
	}
	d.children[label] = child
	d.labels = append(d.labels, label)
	return true
}

// Child returns the child activated by the given result label.
func (d *Decision) Child(label string) (Element, bool) {
	child, ok := d.children[label]
	return child, ok
}

// Labels returns the declared result labels in declaration order.
func (d *Decision) Labels() []string {
	out := make([]string, len(d.labels))
	copy(out, d.labels)
	return out
}

// Action is a leaf element bound to a single behavior, with literal
// parameters supplied at definition time.
type Action struct {
	base
	params map[string]string
}

// NewAction creates an action element with the given parameters.
// A nil map is treated as empty.
func NewAction(name string, params map[string]string) *Action {
	if params == nil {
		params = make(map[string]string)
	}
	return &Action{base: base{name: name}, params: params}
}

func (a *Action) Kind() string { return KindAction }

// Params returns the literal key/value parameters declared for this
// action. Callers must not mutate the returned map.
func (a *Action) Params() map[string]string { return a.params }

// Sequence is an ordered list of actions executed one at a time.
// The engine treats it as a single stack entry that internally tracks
// its own position.
type Sequence struct {
	base
	actions []*Action
}

// NewSequence creates a sequence over the given actions.
func NewSequence(actions []*Action) *Sequence {
	names := make([]string, len(actions))
	for i, a := range actions {
		names[i] = a.Name()
	}
	return &Sequence{
		base:    base{name: "Sequence: " + joinNames(names)},
		actions: actions,
	}
}

func (s *Sequence) Kind() string { return KindSequence }

// Actions returns the ordered action elements of the sequence.
func (s *Sequence) Actions() []*Action { return s.actions }

func joinNames(names []string) string {
	out := ""
	for i, n := range names {
		if i > 0 {
			out += ", "
		}
		out += n
	}
	return out
}
