package handoff

import (
	"time"

	"github.com/mindrian/handoffcore/types"
)

// Canonical error texts for results that failed without the agent ever
// answering. Callers match on these exact strings.
const (
	ErrorTextTimeout  = "timeout"
	ErrorTextCanceled = "canceled"
)

// Result is the complete response from a unit of work. Identity fields
// mirror the originating Context: HandoffID is propagated unchanged,
// FromAgent is the agent that did the work, ToAgent is who receives the
// results.
type Result struct {
	HandoffID string `json:"handoff_id"`
	FromAgent string `json:"from_agent"`
	ToAgent   string `json:"to_agent"`

	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`

	Output       string `json:"output,omitempty"`
	OutputFormat string `json:"output_format,omitempty"` // markdown, json, structured

	KeyFindings     []string           `json:"key_findings,omitempty"`
	Recommendations []string           `json:"recommendations,omitempty"`
	Confidence      float64            `json:"confidence"`
	Scores          map[string]float64 `json:"scores,omitempty"`

	SuggestedNextAgents []string `json:"suggested_next_agents,omitempty"`
	OpenQuestions       []string `json:"open_questions,omitempty"`
	NeedsHumanInput     bool     `json:"needs_human_input"`
	HumanInputReason    string   `json:"human_input_reason,omitempty"`

	Duration  time.Duration `json:"duration"`
	Timestamp time.Time     `json:"timestamp"`

	// Metadata is an open extension map; only the strategies write the
	// reserved Meta* keys (debate role, round number).
	Metadata map[string]any `json:"metadata,omitempty"`
}

// NewSuccess creates a successful Result mirroring the originating context.
func NewSuccess(hc *Context, output string) *Result {
	return &Result{
		HandoffID:    hc.HandoffID,
		FromAgent:    hc.ToAgent,
		ToAgent:      hc.ReturnTo,
		Success:      true,
		Output:       output,
		OutputFormat: "markdown",
		Timestamp:    time.Now(),
	}
}

// NewFailure creates a failed Result mirroring the originating context. A
// failed result carries no output, findings, or recommendations.
func NewFailure(hc *Context, errMsg string) *Result {
	return &Result{
		HandoffID: hc.HandoffID,
		FromAgent: hc.ToAgent,
		ToAgent:   hc.ReturnTo,
		Success:   false,
		Error:     errMsg,
		Timestamp: time.Now(),
	}
}

// Validate checks the success/error invariant: a failed result has a
// non-empty error and empty output/findings/recommendations; a successful
// result has an empty error.
func (r *Result) Validate() error {
	if r.Success {
		if r.Error != "" {
			return types.NewError(types.ErrInvalidContext, "successful result carries an error")
		}
		return nil
	}
	if r.Error == "" {
		return types.NewError(types.ErrInvalidContext, "failed result has no error description")
	}
	if r.Output != "" || len(r.KeyFindings) > 0 || len(r.Recommendations) > 0 {
		return types.NewError(types.ErrInvalidContext, "failed result carries output")
	}
	return nil
}

// ToAnalysis converts the result into a PriorAnalysis for chaining into a
// subsequent Context.
func (r *Result) ToAnalysis() PriorAnalysis {
	return PriorAnalysis{
		FrameworkID:     r.FromAgent,
		FrameworkName:   r.FromAgent,
		Output:          r.Output,
		KeyFindings:     append([]string(nil), r.KeyFindings...),
		Recommendations: append([]string(nil), r.Recommendations...),
		Confidence:      r.Confidence,
		Timestamp:       r.Timestamp,
	}
}

// WithMeta sets a metadata key, allocating the map on first use.
func (r *Result) WithMeta(key string, value any) *Result {
	if r.Metadata == nil {
		r.Metadata = make(map[string]any)
	}
	r.Metadata[key] = value
	return r
}
