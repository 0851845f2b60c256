// Package registry holds the mapping from agent id to invocable unit, the
// single source of truth queried before any dispatch, plus the router
// boundary used by callers to pick candidate agents for a problem.
//
// A Registry is an explicit object injected into each orchestrator rather
// than a process-wide singleton, so tests can run multiple orchestrators with
// isolated registries.
package registry
