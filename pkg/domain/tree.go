package domain

// Tree is a compiled behavior definition. A definition may declare
// several named decisions; exactly one is the root, the others are
// reachable through sub-tree inclusion.
type Tree struct {
	root Element
}

// NewTree creates a tree rooted at the given element.
func NewTree(root Element) *Tree {
	return &Tree{root: root}
}

// Root returns the entry element of the definition.
func (t *Tree) Root() Element { return t.root }

// Walk visits every element reachable from the root, depth first.
// Shared sub-trees are visited once. The visit callback receives the
// element and the label under which its parent holds it ("" for the
// root and for sequence members, which are identified by position).
func (t *Tree) Walk(visit func(label string, el Element)) {
	seen := make(map[Element]bool)
	var walk func(label string, el Element)
	walk = func(label string, el Element) {
		if seen[el] {
			return
		}
		seen[el] = true
		visit(label, el)
		switch v := el.(type) {
		case *Decision:
			for _, l := range v.Labels() {
				child, _ := v.Child(l)
				walk(l, child)
			}
		case *Sequence:
			for _, a := range v.Actions() {
				walk("", a)
			}
		}
	}
	if t.root != nil {
		walk("", t.root)
	}
}
