package strategy

import (
	"context"

	"go.uber.org/zap"

	"github.com/mindrian/handoffcore/handoff"
	"github.com/mindrian/handoffcore/registry"
)

// Selective routes the handoff to the single best target. When a router is
// configured it ranks the targets against the context's focus areas and task
// description; otherwise the first target wins. Exactly one agent is invoked.
type Selective struct {
	inv    Invoker
	router registry.Router
	logger *zap.Logger
}

// NewSelective creates the routed single-dispatch strategy. router may be
// nil.
func NewSelective(inv Invoker, router registry.Router, logger *zap.Logger) *Selective {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Selective{
		inv:    inv,
		router: router,
		logger: logger.With(zap.String("strategy", "selective")),
	}
}

// Execute implements Strategy. The returned slice holds the single chosen
// target's result.
func (s *Selective) Execute(ctx context.Context, base *handoff.Context, targets []string) []*handoff.Result {
	if len(targets) == 0 {
		return nil
	}

	chosen := s.choose(base, targets)
	s.logger.Debug("routed handoff",
		zap.String("handoff_id", base.HandoffID),
		zap.String("chosen", chosen),
		zap.Int("candidates", len(targets)),
	)

	return []*handoff.Result{s.inv.Invoke(ctx, base.Step(chosen))}
}

func (s *Selective) choose(base *handoff.Context, targets []string) string {
	if s.router == nil {
		return targets[0]
	}

	signals := append(append([]string(nil), base.FocusAreas...), base.TaskDescription)
	ranked := s.router.SelectCandidates(signals, nil)

	allowed := make(map[string]bool, len(targets))
	for _, t := range targets {
		allowed[t] = true
	}
	for _, id := range ranked {
		if allowed[id] {
			return id
		}
	}
	return targets[0]
}
