package synthesis

import (
	"strings"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindrian/handoffcore/handoff"
)

func synthContext() *handoff.Context {
	return &handoff.Context{
		HandoffID:       handoff.NewHandoffID(),
		FromAgent:       "larry",
		ToAgent:         "panel",
		ReturnTo:        "larry",
		TaskDescription: "assess the expansion plan",
		Timestamp:       time.Now(),
	}
}

func contribution(agent string, confidence float64) *handoff.Result {
	return &handoff.Result{
		HandoffID:  "h-1",
		FromAgent:  agent,
		Success:    true,
		Output:     agent + " analysis",
		Confidence: confidence,
		Timestamp:  time.Now(),
	}
}

func TestCombine_MergesSuccessfulResults(t *testing.T) {
	s := New(nil)
	hc := synthContext()

	a := contribution("minto", 0.9)
	a.KeyFindings = []string{"margin compression", "channel conflict"}
	a.Recommendations = []string{"pilot first"}
	a.SuggestedNextAgents = []string{"porter"}
	a.OpenQuestions = []string{"what is the budget?"}

	b := contribution("porter", 0.8)
	b.KeyFindings = []string{"channel conflict", "supplier power rising"}
	b.Recommendations = []string{"pilot first", "renegotiate terms"}
	b.SuggestedNextAgents = []string{"minto", "porter"}

	out := s.Combine([]*handoff.Result{a, b}, hc)

	require.True(t, out.Success)
	assert.Equal(t, hc.HandoffID, out.HandoffID)
	assert.Equal(t, "panel", out.FromAgent)
	assert.Equal(t, "larry", out.ToAgent)

	assert.Equal(t, []string{"margin compression", "channel conflict", "supplier power rising"}, out.KeyFindings,
		"exact duplicates collapse, first occurrence order kept")
	assert.Equal(t, []string{"pilot first", "renegotiate terms"}, out.Recommendations)
	assert.Equal(t, []string{"porter", "minto"}, out.SuggestedNextAgents)
	assert.Equal(t, []string{"what is the budget?"}, out.OpenQuestions)

	assert.Contains(t, out.Output, "## minto")
	assert.Contains(t, out.Output, "## porter")
	assert.True(t, strings.Index(out.Output, "## minto") < strings.Index(out.Output, "## porter"))
}

func TestCombine_ConfidenceDamping(t *testing.T) {
	s := New(nil)

	out := s.Combine([]*handoff.Result{
		contribution("a", 0.9),
		contribution("b", 0.1),
	}, synthContext())

	// A near-useless contributor drags the aggregate far below the 0.5
	// arithmetic mean, but the pair is still worth more than the weak
	// member alone.
	assert.Greater(t, out.Confidence, 0.1)
	assert.Less(t, out.Confidence, 0.5)
}

func TestCombine_LowConfidenceRequestsHumanInput(t *testing.T) {
	s := New(nil)

	out := s.Combine([]*handoff.Result{contribution("a", 0.3)}, synthContext())

	assert.True(t, out.NeedsHumanInput)
	assert.Contains(t, out.HumanInputReason, "below threshold")
}

func TestCombine_PropagatesContributorHumanInput(t *testing.T) {
	s := New(nil)

	a := contribution("a", 0.9)
	a.NeedsHumanInput = true
	a.HumanInputReason = "conflicting stakeholder accounts"

	out := s.Combine([]*handoff.Result{a, contribution("b", 0.9)}, synthContext())

	assert.True(t, out.NeedsHumanInput)
	assert.Contains(t, out.HumanInputReason, "conflicting stakeholder accounts")
}

func TestCombine_FailedResultsExcluded(t *testing.T) {
	s := New(nil)

	failed := &handoff.Result{FromAgent: "b", Success: false, Error: "boom", Timestamp: time.Now()}
	out := s.Combine([]*handoff.Result{contribution("a", 0.9), failed}, synthContext())

	require.True(t, out.Success)
	assert.NotContains(t, out.Output, "## b")
	assert.InDelta(t, 0.81, out.Confidence, 1e-9, "only the successful contributor counts")
}

func TestCombine_AllFailed(t *testing.T) {
	s := New(nil)
	hc := synthContext()

	out := s.Combine([]*handoff.Result{
		{FromAgent: "a", Success: false, Error: "timeout", Timestamp: time.Now()},
		{FromAgent: "b", Success: false, Error: "boom", Timestamp: time.Now()},
	}, hc)

	require.False(t, out.Success)
	assert.Equal(t, hc.HandoffID, out.HandoffID)
	assert.Contains(t, out.Error, "a: timeout")
	assert.Contains(t, out.Error, "b: boom")
	assert.True(t, out.NeedsHumanInput)
	assert.NoError(t, out.Validate())
}

func TestCombine_EmptyInput(t *testing.T) {
	s := New(nil)
	out := s.Combine(nil, synthContext())
	assert.False(t, out.Success)
	assert.True(t, out.NeedsHumanInput)
}

func TestCombine_CustomThreshold(t *testing.T) {
	s := New(nil)
	s.ConfidenceThreshold = 0.9

	out := s.Combine([]*handoff.Result{contribution("a", 0.9)}, synthContext())

	// 0.81 damped falls under the raised threshold.
	assert.True(t, out.NeedsHumanInput)
}

func TestProperty_SynthesizedConfidenceBounds(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("confidence stays within [0,1] and below the best contributor",
		prop.ForAll(
			func(confidences []float64) bool {
				if len(confidences) == 0 {
					return true
				}
				results := make([]*handoff.Result, len(confidences))
				best := 0.0
				for i, c := range confidences {
					results[i] = contribution("agent", c)
					if c > best {
						best = c
					}
				}
				out := New(nil).Combine(results, synthContext())
				return out.Confidence >= 0 && out.Confidence <= 1 && out.Confidence <= best+1e-9
			},
			gen.SliceOf(gen.Float64Range(0, 1)),
		))

	properties.TestingRun(t)
}

func TestApplyThreshold(t *testing.T) {
	s := New(nil)

	low := contribution("a", 0.2)
	s.ApplyThreshold(low)
	assert.True(t, low.NeedsHumanInput)
	assert.Contains(t, low.HumanInputReason, "below threshold")

	confident := contribution("b", 0.8)
	s.ApplyThreshold(confident)
	assert.False(t, confident.NeedsHumanInput)

	// Failed results already carry their own escalation path.
	failed := &handoff.Result{FromAgent: "c", Success: false, Error: "boom", Timestamp: time.Now()}
	s.ApplyThreshold(failed)
	assert.False(t, failed.NeedsHumanInput)

	// An existing reason is kept, not overwritten.
	flagged := contribution("d", 0.1)
	flagged.NeedsHumanInput = true
	flagged.HumanInputReason = "conflicting stakeholder accounts"
	s.ApplyThreshold(flagged)
	assert.Contains(t, flagged.HumanInputReason, "conflicting stakeholder accounts")
	assert.Contains(t, flagged.HumanInputReason, "below threshold")
}
