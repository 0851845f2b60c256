package strategy

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/mindrian/handoffcore/handoff"
)

// fakeInvoker records every step context and answers via per-agent
// callbacks, defaulting to a successful canned result.
type fakeInvoker struct {
	mu    sync.Mutex
	calls []*handoff.Context
	fn    func(ctx context.Context, hc *handoff.Context) *handoff.Result
}

func (f *fakeInvoker) Invoke(ctx context.Context, hc *handoff.Context) *handoff.Result {
	f.mu.Lock()
	f.calls = append(f.calls, hc)
	f.mu.Unlock()

	if ctx.Err() != nil {
		return handoff.NewFailure(hc, deadlineErrorText(ctx))
	}
	if f.fn != nil {
		return f.fn(ctx, hc)
	}
	r := handoff.NewSuccess(hc, "output from "+hc.ToAgent)
	r.KeyFindings = []string{hc.ToAgent + " finding"}
	r.Confidence = 0.8
	return r
}

func (f *fakeInvoker) invoked() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	agents := make([]string, 0, len(f.calls))
	for _, hc := range f.calls {
		agents = append(agents, hc.ToAgent)
	}
	return agents
}

// callsTo returns the recorded step contexts for one agent in invocation
// order.
func (f *fakeInvoker) callsTo(agent string) []*handoff.Context {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*handoff.Context
	for _, hc := range f.calls {
		if hc.ToAgent == agent {
			out = append(out, hc)
		}
	}
	return out
}

func baseContext() *handoff.Context {
	return &handoff.Context{
		HandoffID:       handoff.NewHandoffID(),
		Timestamp:       time.Now(),
		TaskDescription: "Analyze churn drivers",
		FromAgent:       "larry",
		ReturnTo:        "larry",
		Type:            handoff.TypeDelegate,
		Timeout:         5 * time.Second,
	}
}

func failingOn(agents ...string) func(context.Context, *handoff.Context) *handoff.Result {
	return func(_ context.Context, hc *handoff.Context) *handoff.Result {
		for _, a := range agents {
			if strings.EqualFold(a, hc.ToAgent) {
				return handoff.NewFailure(hc, "analysis failed")
			}
		}
		r := handoff.NewSuccess(hc, "output from "+hc.ToAgent)
		r.Confidence = 0.8
		return r
	}
}
