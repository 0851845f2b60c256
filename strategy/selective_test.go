package strategy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindrian/handoffcore/registry"
)

func TestSelective_RoutesToRankedTarget(t *testing.T) {
	inv := &fakeInvoker{}
	router := registry.RouterFunc(func(_, _ []string) []string {
		return []string{"outsider", "porter", "minto"}
	})
	sel := NewSelective(inv, router, nil)

	results := sel.Execute(context.Background(), baseContext(), []string{"minto", "porter"})

	require.Len(t, results, 1)
	assert.Equal(t, "porter", results[0].FromAgent, "best ranked target inside the allowed set wins")
	assert.Equal(t, []string{"porter"}, inv.invoked(), "exactly one agent is invoked")
}

func TestSelective_NoRouterFallsBackToFirstTarget(t *testing.T) {
	inv := &fakeInvoker{}
	sel := NewSelective(inv, nil, nil)

	results := sel.Execute(context.Background(), baseContext(), []string{"minto", "porter"})

	require.Len(t, results, 1)
	assert.Equal(t, "minto", results[0].FromAgent)
}

func TestSelective_RouterMissFallsBackToFirstTarget(t *testing.T) {
	inv := &fakeInvoker{}
	router := registry.RouterFunc(func(_, _ []string) []string { return nil })
	sel := NewSelective(inv, router, nil)

	results := sel.Execute(context.Background(), baseContext(), []string{"minto", "porter"})

	require.Len(t, results, 1)
	assert.Equal(t, "minto", results[0].FromAgent)
}

func TestSelective_EmptyTargets(t *testing.T) {
	sel := NewSelective(&fakeInvoker{}, nil, nil)
	assert.Empty(t, sel.Execute(context.Background(), baseContext(), nil))
}
