package orchestrator

import (
	"context"

	"github.com/mindrian/handoffcore/handoff"
)

// Escalator receives results that need human input. Implementations must not
// block: the Manager dispatches escalations fire-and-forget and never waits
// for a human response.
type Escalator interface {
	Escalate(ctx context.Context, res *handoff.Result, hc *handoff.Context)
}

// EscalatorFunc adapts a function to the Escalator interface.
type EscalatorFunc func(ctx context.Context, res *handoff.Result, hc *handoff.Context)

// Escalate implements Escalator.
func (f EscalatorFunc) Escalate(ctx context.Context, res *handoff.Result, hc *handoff.Context) {
	f(ctx, res, hc)
}

// Escalation pairs an escalated result with its originating context.
type Escalation struct {
	Result  *handoff.Result
	Context *handoff.Context
}

// ChannelEscalator delivers escalations on a channel. When the channel is
// full the escalation is dropped rather than blocking the orchestrator.
type ChannelEscalator struct {
	ch chan Escalation
}

// NewChannelEscalator creates a channel escalator with the given buffer.
func NewChannelEscalator(buffer int) *ChannelEscalator {
	if buffer <= 0 {
		buffer = 16
	}
	return &ChannelEscalator{ch: make(chan Escalation, buffer)}
}

// Escalate implements Escalator.
func (e *ChannelEscalator) Escalate(ctx context.Context, res *handoff.Result, hc *handoff.Context) {
	select {
	case e.ch <- Escalation{Result: res, Context: hc}:
	default:
	}
}

// C returns the channel escalations are delivered on.
func (e *ChannelEscalator) C() <-chan Escalation {
	return e.ch
}
