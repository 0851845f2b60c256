package orchestrator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mindrian/handoffcore/handoff"
)

func TestChannelEscalator_DeliversWithoutBlocking(t *testing.T) {
	esc := NewChannelEscalator(1)
	res := &handoff.Result{HandoffID: "h-1", NeedsHumanInput: true}

	esc.Escalate(context.Background(), res, nil)

	got := <-esc.C()
	assert.Equal(t, "h-1", got.Result.HandoffID)
}

func TestChannelEscalator_DropsWhenFull(t *testing.T) {
	esc := NewChannelEscalator(1)

	esc.Escalate(context.Background(), &handoff.Result{HandoffID: "first"}, nil)
	// The buffer is full; this must not block.
	esc.Escalate(context.Background(), &handoff.Result{HandoffID: "second"}, nil)

	got := <-esc.C()
	assert.Equal(t, "first", got.Result.HandoffID)

	select {
	case <-esc.C():
		t.Fatal("second escalation should have been dropped")
	default:
	}
}

func TestEscalatorFunc(t *testing.T) {
	var seen *handoff.Result
	fn := EscalatorFunc(func(_ context.Context, res *handoff.Result, _ *handoff.Context) {
		seen = res
	})

	fn.Escalate(context.Background(), &handoff.Result{HandoffID: "h-2"}, nil)
	assert.Equal(t, "h-2", seen.HandoffID)
}
