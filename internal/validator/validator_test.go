package validator

import (
	"context"
	"strings"
	"testing"

	"github.com/aretw0/arbor/internal/compiler"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/ports"
	"github.com/aretw0/arbor/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDefinition = `
$Root
    IDLE --> @Wait
    WORK --> $WorkDecision
        FIRST --> @FirstTask
        SECOND --> @SecondTask
    SEQ --> @StepOne, @StepTwo
`

func compileTree(t *testing.T) *domain.Tree {
	t.Helper()
	p := compiler.NewParser()
	require.NoError(t, p.Parse(strings.NewReader(testDefinition), "test"))
	tree, err := p.Compile()
	require.NoError(t, err)
	return tree
}

type stubDecider struct{}

func (stubDecider) Decide(context.Context) (string, error) { return "", nil }

type stubActor struct{}

func (stubActor) Act(context.Context) error { return nil }

func fullRegistry() *registry.Registry {
	reg := registry.New()
	for _, name := range []string{"Root", "WorkDecision"} {
		reg.RegisterDecider(name, func(registry.Invocation) (ports.Decider, error) {
			return stubDecider{}, nil
		})
	}
	for _, name := range []string{"Wait", "FirstTask", "SecondTask", "StepOne", "StepTwo"} {
		reg.RegisterActor(name, func(registry.Invocation) (ports.Actor, error) {
			return stubActor{}, nil
		})
	}
	return reg
}

func TestValidateTree_Statistics(t *testing.T) {
	report, err := ValidateTree(compileTree(t), nil)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Decisions)
	assert.Equal(t, 5, report.Actions)
	assert.Equal(t, 1, report.Sequences)
	assert.Equal(t, 3, report.MaxDepth)
	assert.Empty(t, report.Unbound)
}

func TestValidateTree_FullyBound(t *testing.T) {
	report, err := ValidateTree(compileTree(t), fullRegistry())
	require.NoError(t, err)
	assert.Empty(t, report.Unbound)
}

func TestValidateTree_ReportsUnbound(t *testing.T) {
	reg := registry.New()
	reg.RegisterDecider("Root", func(registry.Invocation) (ports.Decider, error) {
		return stubDecider{}, nil
	})
	reg.RegisterActor("Wait", func(registry.Invocation) (ports.Actor, error) {
		return stubActor{}, nil
	})

	report, err := ValidateTree(compileTree(t), reg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unbound behaviors")
	assert.Equal(t,
		[]string{"FirstTask", "SecondTask", "StepOne", "StepTwo", "WorkDecision"},
		report.Unbound, "unbound names are sorted for stable output")
}
