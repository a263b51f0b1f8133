package registry

import (
	"context"
	"testing"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopDecider struct{ inv Invocation }

func (d *noopDecider) Decide(context.Context) (string, error) { return "GO", nil }

type noopActor struct{ inv Invocation }

func (a *noopActor) Act(context.Context) error { return nil }

func TestRegistry_Registration(t *testing.T) {
	reg := New()
	assert.False(t, reg.HasDecider("Patrol"))
	assert.False(t, reg.HasActor("Move"))

	reg.RegisterDecider("Patrol", func(inv Invocation) (ports.Decider, error) {
		return &noopDecider{inv: inv}, nil
	})
	reg.RegisterActor("Move", func(inv Invocation) (ports.Actor, error) {
		return &noopActor{inv: inv}, nil
	})

	assert.True(t, reg.HasDecider("Patrol"))
	assert.True(t, reg.HasActor("Move"))
	assert.False(t, reg.HasActor("Patrol"), "deciders and actors are separate namespaces")
}

func TestBinder_PassesBlackboardAndParams(t *testing.T) {
	reg := New()
	reg.RegisterDecider("Patrol", func(inv Invocation) (ports.Decider, error) {
		return &noopDecider{inv: inv}, nil
	})
	reg.RegisterActor("Move", func(inv Invocation) (ports.Actor, error) {
		return &noopActor{inv: inv}, nil
	})

	blackboard := &struct{ Battery float64 }{Battery: 0.8}
	binder := reg.Binder(blackboard)

	decision := domain.NewDecision("Patrol")
	d, err := binder.BindDecider(decision)
	require.NoError(t, err)
	assert.Same(t, blackboard, d.(*noopDecider).inv.Blackboard)
	assert.Equal(t, "Patrol", d.(*noopDecider).inv.Element)

	action := domain.NewAction("Move", map[string]string{"speed": "0.2"})
	a, err := binder.BindActor(action)
	require.NoError(t, err)
	assert.Same(t, blackboard, a.(*noopActor).inv.Blackboard)
	assert.Equal(t, map[string]string{"speed": "0.2"}, a.(*noopActor).inv.Params)
}

func TestBinder_MissingBehavior(t *testing.T) {
	binder := New().Binder(nil)

	_, err := binder.BindDecider(domain.NewDecision("Patrol"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `no decider registered for "Patrol"`)

	_, err = binder.BindActor(domain.NewAction("Move", nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `no actor registered for "Move"`)
}

func TestRegistry_Overwrite(t *testing.T) {
	reg := New()
	reg.RegisterActor("Move", func(Invocation) (ports.Actor, error) {
		t.Fatal("replaced factory must not be called")
		return nil, nil
	})
	reg.RegisterActor("Move", func(inv Invocation) (ports.Actor, error) {
		return &noopActor{inv: inv}, nil
	})

	a, err := reg.Binder(nil).BindActor(domain.NewAction("Move", nil))
	require.NoError(t, err)
	assert.IsType(t, &noopActor{}, a)
}
