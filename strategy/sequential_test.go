package strategy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindrian/handoffcore/handoff"
)

func TestSequential_ChainAccumulatesPriors(t *testing.T) {
	inv := &fakeInvoker{}
	seq := NewSequential(inv, nil)

	base := baseContext()
	base.PreviousAnalyses = []handoff.PriorAnalysis{{FrameworkID: "earlier", Output: "seed"}}

	results := seq.Execute(context.Background(), base, []string{"a", "b", "c"})

	require.Len(t, results, 3)
	assert.Equal(t, []string{"a", "b", "c"}, inv.invoked())

	// a sees only the base prior; c sees base + a + b.
	require.Len(t, inv.callsTo("a"), 1)
	assert.Len(t, inv.callsTo("a")[0].PreviousAnalyses, 1)

	cCtx := inv.callsTo("c")[0]
	require.Len(t, cCtx.PreviousAnalyses, 3)
	assert.Equal(t, "earlier", cCtx.PreviousAnalyses[0].FrameworkID)
	assert.Equal(t, "a", cCtx.PreviousAnalyses[1].FrameworkID)
	assert.Equal(t, "b", cCtx.PreviousAnalyses[2].FrameworkID)

	// Step contexts stay inside the same handoff.
	assert.Equal(t, base.HandoffID, cCtx.HandoffID)
}

func TestSequential_FailFast(t *testing.T) {
	inv := &fakeInvoker{fn: failingOn("a")}
	seq := NewSequential(inv, nil)

	results := seq.Execute(context.Background(), baseContext(), []string{"a", "b", "c"})

	require.Len(t, results, 1)
	assert.False(t, results[0].Success)
	assert.Equal(t, []string{"a"}, inv.invoked(), "b and c are never invoked")
}

func TestSequential_ContinueOnError(t *testing.T) {
	inv := &fakeInvoker{fn: failingOn("b")}
	seq := NewSequential(inv, nil)
	seq.ContinueOnError = true

	results := seq.Execute(context.Background(), baseContext(), []string{"a", "b", "c"})

	require.Len(t, results, 3)
	assert.True(t, results[0].Success)
	assert.False(t, results[1].Success)
	assert.True(t, results[2].Success)

	// The failed step contributes nothing to c's priors.
	cCtx := inv.callsTo("c")[0]
	require.Len(t, cCtx.PreviousAnalyses, 1)
	assert.Equal(t, "a", cCtx.PreviousAnalyses[0].FrameworkID)
}

func TestSequential_EmptyTargets(t *testing.T) {
	seq := NewSequential(&fakeInvoker{}, nil)
	assert.Empty(t, seq.Execute(context.Background(), baseContext(), nil))
}

func TestSequential_BudgetExhausted(t *testing.T) {
	inv := &fakeInvoker{}
	seq := NewSequential(inv, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := seq.Execute(ctx, baseContext(), []string{"a", "b"})

	// The first step fails on the dead context and the chain halts.
	require.Len(t, results, 1)
	assert.Equal(t, handoff.ErrorTextCanceled, results[0].Error)
}
