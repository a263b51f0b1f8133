// Package tui renders the active behavior stack for terminal output.
package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/muesli/termenv"
)

// Renderer formats stack listings with terminal colors.
type Renderer struct {
	profile termenv.Profile
}

// NewRenderer detects the terminal color profile.
func NewRenderer() *Renderer {
	return &Renderer{profile: termenv.ColorProfile()}
}

// Placeholder is shown while no snapshot has been received yet.
func (r *Renderer) Placeholder() string {
	msg := termenv.String("waiting for the first snapshot...").
		Foreground(r.profile.Color("8")).
		String()
	return msg + "\n" +
		"Make sure the engine is running, publishing is enabled\n" +
		"and both sides use the same channel.\n"
}

// RenderStack formats the active path top-down, one element per level,
// with the activation reason and nested debug data.
func (r *Renderer) RenderStack(stack []domain.StackEntry) string {
	var sb strings.Builder
	for i, entry := range stack {
		indent := strings.Repeat("  ", i)
		if i > 0 {
			sb.WriteString(fmt.Sprintf("%s%s %s\n", indent,
				termenv.String("↳ "+entry.Reason).Foreground(r.profile.Color("8")).String(),
				r.elementName(entry.Element)))
		} else {
			sb.WriteString(fmt.Sprintf("%s%s\n", indent, r.elementName(entry.Element)))
		}
		r.renderDebugData(&sb, indent+"    ", entry.Debug)
	}
	return sb.String()
}

func (r *Renderer) elementName(el domain.Element) string {
	name := termenv.String(el.Name())
	switch el.Kind() {
	case domain.KindDecision:
		name = name.Foreground(r.profile.Color("6"))
	case domain.KindAction:
		name = name.Foreground(r.profile.Color("2"))
	case domain.KindSequence:
		name = name.Foreground(r.profile.Color("3"))
	}
	return name.String()
}

// renderDebugData walks scalars, lists and maps the way the payload is
// nested, keeping map output deterministic.
func (r *Renderer) renderDebugData(sb *strings.Builder, indent string, data any) {
	switch v := data.(type) {
	case nil:
	case []any:
		for i, item := range v {
			fmt.Fprintf(sb, "%s%d:", indent, i)
			r.renderInline(sb, indent+"  ", item)
		}
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(sb, "%s%s:", indent, k)
			r.renderInline(sb, indent+"  ", v[k])
		}
	default:
		fmt.Fprintf(sb, "%s%v\n", indent, v)
	}
}

func (r *Renderer) renderInline(sb *strings.Builder, indent string, data any) {
	switch data.(type) {
	case []any, map[string]any:
		sb.WriteString("\n")
		r.renderDebugData(sb, indent, data)
	default:
		fmt.Fprintf(sb, " %v\n", data)
	}
}
