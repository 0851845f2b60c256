// Package metrics provides prometheus instrumentation for handoff execution.
// This package is internal and should not be imported by external projects.
package metrics
