package strategy

import (
	"context"

	"go.uber.org/zap"

	"github.com/mindrian/handoffcore/handoff"
)

// Parallel fans one handoff out to every target at once. Every target gets
// the same derived context, built from the base alone — siblings never see
// each other's output. The whole group shares the caller's single deadline;
// targets still running when it expires are recorded as timed-out results
// while finished targets keep their real results. The group never fails as a
// whole: partial results go back for the synthesizer to sort out.
type Parallel struct {
	inv    Invoker
	logger *zap.Logger

	// MaxConcurrent caps in-flight invocations; <= 0 means unbounded.
	MaxConcurrent int
}

// NewParallel creates the fan-out strategy.
func NewParallel(inv Invoker, logger *zap.Logger) *Parallel {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Parallel{
		inv:    inv,
		logger: logger.With(zap.String("strategy", "parallel")),
	}
}

// Execute implements Strategy. Results come back in target submission order
// regardless of completion order, so downstream consumers stay
// deterministic.
func (p *Parallel) Execute(ctx context.Context, base *handoff.Context, targets []string) []*handoff.Result {
	if len(targets) == 0 {
		return nil
	}

	steps := make([]*handoff.Context, len(targets))
	for i, target := range targets {
		steps[i] = base.Step(target)
	}

	p.logger.Debug("fan-out started",
		zap.String("handoff_id", base.HandoffID),
		zap.Int("targets", len(targets)),
	)

	results := runGroup(ctx, p.inv, steps, p.MaxConcurrent)

	completed := 0
	for _, r := range results {
		if r.Success {
			completed++
		}
	}
	p.logger.Debug("fan-out finished",
		zap.String("handoff_id", base.HandoffID),
		zap.Int("succeeded", completed),
		zap.Int("failed", len(results)-completed),
	)

	return results
}
