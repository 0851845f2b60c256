package handoff

import (
	"time"

	"github.com/google/uuid"
)

// ClarityLevel is a human-readable bucket for an overall clarity score.
type ClarityLevel string

const (
	ClarityUnclear     ClarityLevel = "unclear"      // < 30%
	ClarityPartial     ClarityLevel = "partial"      // 30-60%
	ClarityMostlyClear ClarityLevel = "mostly_clear" // 60-85%
	ClarityClear       ClarityLevel = "clear"        // > 85%
)

// AnalysisReadyThreshold is the overall clarity required before framework
// analysis is worthwhile.
const AnalysisReadyThreshold = 0.6

// ProblemClarity is the orchestrator's assessment of problem understanding:
// the three questions (what, who, success) with a clarity score for each.
// An unanswered question keeps its empty value with clarity 0; it is never
// omitted.
type ProblemClarity struct {
	What    string `json:"what"`
	Who     string `json:"who"`
	Success string `json:"success"`

	WhatClarity    float64 `json:"what_clarity"`
	WhoClarity     float64 `json:"who_clarity"`
	SuccessClarity float64 `json:"success_clarity"`

	Assumptions   []string `json:"assumptions,omitempty"`
	OpenQuestions []string `json:"open_questions,omitempty"`
}

// Clamp forces all clarity scores into [0,1].
func (p *ProblemClarity) Clamp() {
	p.WhatClarity = clamp01(p.WhatClarity)
	p.WhoClarity = clamp01(p.WhoClarity)
	p.SuccessClarity = clamp01(p.SuccessClarity)
}

// OverallClarity is the mean of the three clarity scores.
func (p *ProblemClarity) OverallClarity() float64 {
	return (clamp01(p.WhatClarity) + clamp01(p.WhoClarity) + clamp01(p.SuccessClarity)) / 3
}

// Level buckets the overall clarity score.
func (p *ProblemClarity) Level() ClarityLevel {
	score := p.OverallClarity()
	switch {
	case score < 0.3:
		return ClarityUnclear
	case score < 0.6:
		return ClarityPartial
	case score < 0.85:
		return ClarityMostlyClear
	default:
		return ClarityClear
	}
}

// ReadyForAnalysis reports whether the problem is clear enough to delegate.
func (p *ProblemClarity) ReadyForAnalysis() bool {
	return p.OverallClarity() >= AnalysisReadyThreshold
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// DefaultSummaryCap bounds each ConversationSummary list so the payload
// stays small.
const DefaultSummaryCap = 10

// ConversationSummary is compressed conversation history. It never carries a
// full transcript; every list is capped.
type ConversationSummary struct {
	KeyPoints   []string `json:"key_points,omitempty"`
	UserGoals   []string `json:"user_goals,omitempty"`
	Constraints []string `json:"constraints,omitempty"`
	Preferences []string `json:"preferences,omitempty"`
	TurnCount   int      `json:"turn_count"`
}

// Bound truncates every list to at most max entries, keeping the most recent
// entries. A max of zero or less applies DefaultSummaryCap.
func (s *ConversationSummary) Bound(max int) {
	if max <= 0 {
		max = DefaultSummaryCap
	}
	s.KeyPoints = tail(s.KeyPoints, max)
	s.UserGoals = tail(s.UserGoals, max)
	s.Constraints = tail(s.Constraints, max)
	s.Preferences = tail(s.Preferences, max)
}

func tail(list []string, max int) []string {
	if len(list) <= max {
		return list
	}
	return list[len(list)-max:]
}

// PriorAnalysis is the immutable record of a previously completed unit of
// work, carried forward so later agents can build on earlier findings.
// Created only by Result.ToAnalysis; never mutated afterwards.
type PriorAnalysis struct {
	FrameworkID     string    `json:"framework_id"`
	FrameworkName   string    `json:"framework_name"`
	Output          string    `json:"output"`
	KeyFindings     []string  `json:"key_findings,omitempty"`
	Recommendations []string  `json:"recommendations,omitempty"`
	Confidence      float64   `json:"confidence"`
	Timestamp       time.Time `json:"timestamp"`
}

// Context is the complete request passed into an agent. It is created once
// per handoff by the orchestrator and read-only thereafter; chained handoffs
// derive a fresh Context instead of mutating this one.
type Context struct {
	HandoffID string    `json:"handoff_id"`
	Timestamp time.Time `json:"timestamp"`
	SessionID string    `json:"session_id,omitempty"`

	ProblemClarity ProblemClarity      `json:"problem_clarity"`
	Conversation   ConversationSummary `json:"conversation"`

	// PreviousAnalyses accumulates across a chain (blackboard pattern).
	PreviousAnalyses []PriorAnalysis `json:"previous_analyses,omitempty"`

	TaskDescription string   `json:"task_description"`
	ExpectedOutput  string   `json:"expected_output,omitempty"`
	FocusAreas      []string `json:"focus_areas,omitempty"`
	IgnoreAreas     []string `json:"ignore_areas,omitempty"`

	FromAgent      string         `json:"from_agent"`
	ToAgent        string         `json:"to_agent"`
	ReturnTo       string         `json:"return_to"`
	ReturnBehavior ReturnBehavior `json:"return_behavior"`

	Type     Type          `json:"handoff_type"`
	Mode     Mode          `json:"handoff_mode"`
	Priority int           `json:"priority"` // 1=normal, 2=high, 3=urgent
	Timeout  time.Duration `json:"timeout"`

	// Metadata is an open extension map. The core never reads it for
	// control decisions; only the reserved Meta* keys are interpreted, and
	// only by the strategies.
	Metadata map[string]any `json:"metadata,omitempty"`
}

// NewHandoffID generates a fresh unique handoff identifier.
func NewHandoffID() string {
	return uuid.NewString()
}

// Derive creates a new Context for a chained handoff: same problem
// definition and conversation state, fresh id and timestamp, with the given
// priors appended after the base context's own.
func (c *Context) Derive(priors ...PriorAnalysis) *Context {
	d := c.clone()
	d.HandoffID = NewHandoffID()
	d.Timestamp = time.Now()
	d.PreviousAnalyses = append(d.PreviousAnalyses, priors...)
	return d
}

// Step creates the per-target context for one invocation inside the same
// handoff: the handoff id is preserved, ToAgent is set to the target, and the
// given priors are appended after the base context's own.
func (c *Context) Step(target string, priors ...PriorAnalysis) *Context {
	d := c.clone()
	d.ToAgent = target
	d.Timestamp = time.Now()
	d.PreviousAnalyses = append(d.PreviousAnalyses, priors...)
	return d
}

// clone copies the context deeply enough that derived contexts never share
// mutable slices or maps with the base.
func (c *Context) clone() *Context {
	d := *c
	d.PreviousAnalyses = append([]PriorAnalysis(nil), c.PreviousAnalyses...)
	d.FocusAreas = append([]string(nil), c.FocusAreas...)
	d.IgnoreAreas = append([]string(nil), c.IgnoreAreas...)
	d.ProblemClarity.Assumptions = append([]string(nil), c.ProblemClarity.Assumptions...)
	d.ProblemClarity.OpenQuestions = append([]string(nil), c.ProblemClarity.OpenQuestions...)
	d.Conversation.KeyPoints = append([]string(nil), c.Conversation.KeyPoints...)
	d.Conversation.UserGoals = append([]string(nil), c.Conversation.UserGoals...)
	d.Conversation.Constraints = append([]string(nil), c.Conversation.Constraints...)
	d.Conversation.Preferences = append([]string(nil), c.Conversation.Preferences...)
	if c.Metadata != nil {
		d.Metadata = make(map[string]any, len(c.Metadata))
		for k, v := range c.Metadata {
			d.Metadata[k] = v
		}
	}
	return &d
}

// WithMeta returns the context with the metadata key set, allocating the map
// on first use.
func (c *Context) WithMeta(key string, value any) *Context {
	if c.Metadata == nil {
		c.Metadata = make(map[string]any)
	}
	c.Metadata[key] = value
	return c
}

// Targets returns the target agent list carried under the reserved
// MetaTargets key, or nil when absent.
func (c *Context) Targets() []string {
	if c.Metadata == nil {
		return nil
	}
	switch v := c.Metadata[MetaTargets].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// SetTargets stores the target agent list under the reserved MetaTargets key.
func (c *Context) SetTargets(targets []string) {
	c.WithMeta(MetaTargets, append([]string(nil), targets...))
}
