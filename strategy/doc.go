// Package strategy implements the execution topologies that distribute one
// handoff across a list of target agents: Sequential (pipeline), Parallel
// (fan-out/fan-in), Selective (routed single dispatch), and Debate
// (adversarial rounds).
//
// All strategies share one contract: one base Context plus an ordered target
// list in, an ordered Result list out, one result per target. Failures are
// values, never errors — an unknown agent, a panic inside an agent, or a
// blown deadline each become a failed Result in that target's slot. The
// shared deadline comes from the caller's context.Context; strategies never
// start their own timers.
package strategy
