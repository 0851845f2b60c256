package handoff

// Type represents the intent of a handoff.
type Type string

const (
	// TypeDelegate assigns work and expects results back. The most common
	// pattern: orchestrator control is maintained.
	TypeDelegate Type = "delegate"

	// TypeTransfer passes full control to another agent; there is no return.
	TypeTransfer Type = "transfer"

	// TypeReturn completes work and returns to the caller, triggering the
	// synthesis step.
	TypeReturn Type = "return"

	// TypeEscalate signals the problem is beyond the current agent and a
	// human must weigh in.
	TypeEscalate Type = "escalate"
)

// Mode represents how work is distributed during delegation.
type Mode string

const (
	// ModeSequential runs one agent at a time, each building on the previous
	// agent's findings.
	ModeSequential Mode = "sequential"

	// ModeParallel runs all agents simultaneously and combines results at
	// the end.
	ModeParallel Mode = "parallel"

	// ModeSelective routes to the single best agent for the problem type.
	ModeSelective Mode = "selective"

	// ModeDebate has agents take opposing positions across rounds, resolved
	// by synthesis.
	ModeDebate Mode = "debate"
)

// ReturnBehavior represents what happens when delegated work completes.
type ReturnBehavior string

const (
	// ReturnSynthesize combines and interprets the results. Default.
	ReturnSynthesize ReturnBehavior = "synthesize"

	// ReturnPassthrough returns raw results without interpretation.
	ReturnPassthrough ReturnBehavior = "passthrough"

	// ReturnIterate feeds results into another delegation round until done
	// or the iteration cap is hit.
	ReturnIterate ReturnBehavior = "iterate"
)

// Reserved metadata keys. The core never reads Context.Metadata or
// Result.Metadata for control decisions; only the strategies read and write
// these keys.
const (
	// MetaTargets carries the target agent list for Parallel and Debate
	// dispatch, as a []string.
	MetaTargets = "targets"

	// MetaDebateRole tags a debate participant's position ("FOR"/"AGAINST").
	MetaDebateRole = "debate_role"

	// MetaDebateRound tags a debate result with its 1-based round number.
	MetaDebateRound = "debate_round"
)
