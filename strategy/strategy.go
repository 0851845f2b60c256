package strategy

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/mindrian/handoffcore/handoff"
)

// Invoker invokes a single agent for a derived context. Implementations own
// the error policy: resolution failures, panics, agent errors, and expired
// deadlines all come back as failed Results, never as errors.
type Invoker interface {
	Invoke(ctx context.Context, hc *handoff.Context) *handoff.Result
}

// Strategy distributes one handoff across an ordered list of target agents.
type Strategy interface {
	// Execute returns one Result per target in submission order (Sequential
	// may return fewer when it fails fast). An empty target list yields an
	// empty slice.
	Execute(ctx context.Context, base *handoff.Context, targets []string) []*handoff.Result
}

// runGroup invokes every step context concurrently and collects results into
// submission-order slots. It returns as soon as all steps finish or the
// caller's deadline expires, whichever is first; steps still in flight at the
// deadline are abandoned and their slots filled with timeout (or canceled)
// results. maxConcurrent <= 0 means unbounded.
func runGroup(ctx context.Context, inv Invoker, steps []*handoff.Context, maxConcurrent int) []*handoff.Result {
	results := make([]*handoff.Result, len(steps))
	if len(steps) == 0 {
		return results
	}

	type slot struct {
		index  int
		result *handoff.Result
	}

	// Buffered so abandoned workers never block on send.
	ch := make(chan slot, len(steps))

	g := &errgroup.Group{}
	if maxConcurrent > 0 {
		g.SetLimit(maxConcurrent)
	}
	for i, step := range steps {
		g.Go(func() error {
			ch <- slot{index: i, result: inv.Invoke(ctx, step)}
			return nil
		})
	}
	go func() { _ = g.Wait() }()

	remaining := len(steps)
	for remaining > 0 {
		select {
		case s := <-ch:
			results[s.index] = s.result
			remaining--
		case <-ctx.Done():
			// Drain anything that raced the deadline, then mark the rest.
			for {
				select {
				case s := <-ch:
					results[s.index] = s.result
				default:
					for i, r := range results {
						if r == nil {
							results[i] = handoff.NewFailure(steps[i], deadlineErrorText(ctx))
						}
					}
					return results
				}
			}
		}
	}
	return results
}

// deadlineErrorText maps the context's termination cause to the canonical
// result error text.
func deadlineErrorText(ctx context.Context) string {
	if ctx.Err() == context.Canceled {
		return handoff.ErrorTextCanceled
	}
	return handoff.ErrorTextTimeout
}
