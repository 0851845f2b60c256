// Package handoff defines the work packages that travel between analytical
// agents: the Context an agent receives and the Result it returns.
//
// A Context is created once per handoff and is read-only afterwards; chained
// handoffs derive a new Context that copies the problem definition forward and
// appends the previous Result converted to a PriorAnalysis (the blackboard
// pattern). A Result is created once by the agent invocation and is then
// either synthesized with its siblings or returned unchanged.
package handoff
