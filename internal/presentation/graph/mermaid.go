// Package graph renders compiled behavior trees as Mermaid flowcharts,
// optionally overlaying the currently active path.
package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/arbor/pkg/domain"
)

// Overlay contains dynamic state to visualize on top of the static tree.
type Overlay struct {
	// Stack is the active path, root first.
	Stack []domain.StackEntry
}

// GenerateMermaid produces Mermaid flowchart syntax for the tree.
// It applies semantic shapes:
//   - Decision: [Rectangle]
//   - Action: ([Stadium])
//   - Sequence: [[Subroutine]]
//
// With an overlay, elements on the active stack are styled "active" and
// the current leaf "current".
func GenerateMermaid(tree *domain.Tree, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	ids := make(map[domain.Element]string)
	tree.Walk(func(_ string, el domain.Element) {
		id := nodeID(el, len(ids))
		ids[el] = id

		opener, closer := "[", "]"
		switch el.Kind() {
		case domain.KindAction:
			opener, closer = "([", "])"
		case domain.KindSequence:
			opener, closer = "[[", "]]"
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", id, opener, escapeLabel(el.Name()), closer))
	})

	tree.Walk(func(_ string, el domain.Element) {
		decision, ok := el.(*domain.Decision)
		if !ok {
			return
		}
		for _, label := range decision.Labels() {
			child, _ := decision.Child(label)
			sb.WriteString(fmt.Sprintf("    %s -- \"%s\" --> %s\n", ids[el], escapeLabel(label), ids[child]))
		}
	})

	if overlay != nil && len(overlay.Stack) > 0 {
		sb.WriteString("\n")
		sb.WriteString("    classDef active fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		for i, entry := range overlay.Stack {
			id, known := ids[entry.Element]
			if !known {
				continue
			}
			style := "active"
			if i == len(overlay.Stack)-1 {
				style = "current"
			}
			sb.WriteString(fmt.Sprintf("    class %s %s;\n", id, style))
		}
	}

	return sb.String()
}

// nodeID derives a stable, Mermaid-safe identifier. The ordinal keeps
// ids unique when the same behavior name occurs in several places.
func nodeID(el domain.Element, ordinal int) string {
	return fmt.Sprintf("n%d_%s", ordinal, sanitizeID(el.Name()))
}

func sanitizeID(name string) string {
	var sb strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			sb.WriteRune(r)
		default:
			sb.WriteRune('_')
		}
	}
	return sb.String()
}

func escapeLabel(label string) string {
	return strings.ReplaceAll(label, "\"", "'")
}
