// Package orchestrator coordinates work packages between agents. The Manager
// creates handoff contexts, dispatches them through the configured execution
// strategy, applies the return behavior, and escalates results that need
// human input.
package orchestrator
