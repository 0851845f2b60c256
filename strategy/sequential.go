package strategy

import (
	"context"

	"go.uber.org/zap"

	"github.com/mindrian/handoffcore/handoff"
)

// Sequential runs targets one at a time in list order. Each step's context
// carries the base priors plus every earlier step's findings, so later agents
// build on earlier output. The chain fails fast by default: a failed step
// ends the run, because downstream agents would be building on bad input.
type Sequential struct {
	inv    Invoker
	logger *zap.Logger

	// ContinueOnError keeps the chain running past failed steps. The failed
	// step still contributes nothing to later steps' priors.
	ContinueOnError bool
}

// NewSequential creates the pipeline strategy.
func NewSequential(inv Invoker, logger *zap.Logger) *Sequential {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sequential{
		inv:    inv,
		logger: logger.With(zap.String("strategy", "sequential")),
	}
}

// Execute implements Strategy. The caller's context deadline is the budget
// for the whole chain: a slow early step leaves less room for the rest.
func (s *Sequential) Execute(ctx context.Context, base *handoff.Context, targets []string) []*handoff.Result {
	results := make([]*handoff.Result, 0, len(targets))
	var accumulated []handoff.PriorAnalysis

	for i, target := range targets {
		step := base.Step(target, accumulated...)

		s.logger.Debug("pipeline step",
			zap.Int("step", i+1),
			zap.String("agent", target),
			zap.String("handoff_id", step.HandoffID),
		)

		result := s.inv.Invoke(ctx, step)
		results = append(results, result)

		if !result.Success {
			if !s.ContinueOnError {
				s.logger.Warn("chain halted on failed step",
					zap.Int("step", i+1),
					zap.String("agent", target),
					zap.String("error", result.Error),
				)
				break
			}
			continue
		}
		accumulated = append(accumulated, result.ToAnalysis())
	}

	return results
}
