package strategy

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mindrian/handoffcore/handoff"
)

// DefaultDebateRounds is the round count used when none is configured.
const DefaultDebateRounds = 2

// Debate role labels, alternated across the target list and embedded in each
// participant's task description.
const (
	RoleFor     = "FOR"
	RoleAgainst = "AGAINST"
)

// Debate runs targets as adversaries across a fixed number of rounds. Round
// one is a simultaneous fan-out of the base context with opposing role tags.
// In every later round each participant sees the other participants' latest
// positions as prior analyses — never its own — so it can respond to them.
// The strategy stops after the configured round count; it makes no attempt
// to detect convergence.
//
// A single target is accepted but degenerate: it runs every round alone with
// no opposing positions to respond to, so its later-round priors stay empty.
// Callers wanting an actual debate should pass two or more targets.
type Debate struct {
	inv    Invoker
	logger *zap.Logger

	// Rounds is the total number of rounds; <= 0 applies
	// DefaultDebateRounds.
	Rounds int
}

// NewDebate creates the adversarial strategy.
func NewDebate(inv Invoker, logger *zap.Logger) *Debate {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Debate{
		inv:    inv,
		logger: logger.With(zap.String("strategy", "debate")),
	}
}

// Execute implements Strategy. The output is the flattened list of every
// round's results in submission order per round, each tagged with its round
// number and role under the reserved metadata keys.
func (d *Debate) Execute(ctx context.Context, base *handoff.Context, targets []string) []*handoff.Result {
	if len(targets) == 0 {
		return nil
	}

	rounds := d.Rounds
	if rounds <= 0 {
		rounds = DefaultDebateRounds
	}

	// Latest position per participant, indexed like targets.
	latest := make([]*handoff.Result, len(targets))
	var all []*handoff.Result

	for round := 1; round <= rounds; round++ {
		steps := make([]*handoff.Context, len(targets))
		for i, target := range targets {
			steps[i] = d.roundStep(base, target, i, round, latest)
		}

		d.logger.Debug("debate round",
			zap.String("handoff_id", base.HandoffID),
			zap.Int("round", round),
			zap.Int("participants", len(targets)),
		)

		results := runGroup(ctx, d.inv, steps, 0)
		for i, r := range results {
			r.WithMeta(handoff.MetaDebateRound, round)
			r.WithMeta(handoff.MetaDebateRole, roleFor(i))
			if r.Success {
				latest[i] = r
			}
			all = append(all, r)
		}

		if ctx.Err() != nil {
			break
		}
	}

	return all
}

// roundStep builds one participant's context for a round: role-tagged task,
// and from round two onward the other participants' latest positions as
// priors.
func (d *Debate) roundStep(base *handoff.Context, target string, index, round int, latest []*handoff.Result) *handoff.Context {
	var priors []handoff.PriorAnalysis
	if round > 1 {
		for j, r := range latest {
			if j == index || r == nil {
				continue
			}
			priors = append(priors, r.ToAnalysis())
		}
	}

	step := base.Step(target, priors...)
	role := roleFor(index)
	if round == 1 {
		step.TaskDescription = fmt.Sprintf("[%s] %s", role, base.TaskDescription)
	} else {
		step.TaskDescription = fmt.Sprintf(
			"[%s] Round %d of the debate. Review the other positions in the previous analyses, "+
				"then respond: what do you agree with, what do you challenge, and how does your position change?\n\n"+
				"Original task: %s",
			role, round, base.TaskDescription,
		)
	}
	step.WithMeta(handoff.MetaDebateRole, role)
	step.WithMeta(handoff.MetaDebateRound, round)
	return step
}

func roleFor(index int) string {
	if index%2 == 0 {
		return RoleFor
	}
	return RoleAgainst
}
