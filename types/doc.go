// Package types defines the shared error taxonomy for the handoff core.
//
// Runtime failures inside agent invocations never surface as errors; they are
// converted to failed results at the strategy boundary. The codes here cover
// the programmer errors that are allowed to escape (unknown agent, duplicate
// registration, invalid context) plus the codes embedded in failed results.
package types
