// Package validator checks a compiled tree against the behavior
// registry and reports structural statistics.
package validator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/registry"
)

// Report summarizes a validated tree.
type Report struct {
	Decisions int
	Actions   int
	Sequences int
	MaxDepth  int

	// Unbound lists element names with no registered behavior. Only
	// populated when a registry is supplied.
	Unbound []string
}

// ValidateTree walks the whole tree. With a non-nil registry it also
// verifies that every decision has a decider and every action an actor,
// so missing bindings surface at load time instead of mid-run.
func ValidateTree(tree *domain.Tree, reg *registry.Registry) (*Report, error) {
	report := &Report{}
	unbound := make(map[string]bool)

	depths := make(map[domain.Element]int)
	depths[tree.Root()] = 1

	tree.Walk(func(_ string, el domain.Element) {
		depth := depths[el]
		if depth > report.MaxDepth {
			report.MaxDepth = depth
		}

		switch v := el.(type) {
		case *domain.Decision:
			report.Decisions++
			if reg != nil && !reg.HasDecider(v.Name()) {
				unbound[v.Name()] = true
			}
			for _, label := range v.Labels() {
				child, _ := v.Child(label)
				if _, seen := depths[child]; !seen {
					depths[child] = depth + 1
				}
			}
		case *domain.Action:
			report.Actions++
			if reg != nil && !reg.HasActor(v.Name()) {
				unbound[v.Name()] = true
			}
		case *domain.Sequence:
			report.Sequences++
			for _, act := range v.Actions() {
				if _, seen := depths[act]; !seen {
					depths[act] = depth + 1
				}
			}
		}
	})

	for name := range unbound {
		report.Unbound = append(report.Unbound, name)
	}
	sort.Strings(report.Unbound)

	if len(report.Unbound) > 0 {
		return report, fmt.Errorf("unbound behaviors: %s", strings.Join(report.Unbound, ", "))
	}
	return report, nil
}
