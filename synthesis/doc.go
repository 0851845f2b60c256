// Package synthesis merges the results of a multi-agent handoff into one
// summary result: findings and recommendations are deduplicated, confidence
// is aggregated with damping toward self-assured contributors, and any
// contributor's call for human input is propagated.
package synthesis
