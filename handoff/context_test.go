package handoff

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProblemClarity_OverallClarity(t *testing.T) {
	p := ProblemClarity{WhatClarity: 0.8, WhoClarity: 0.8, SuccessClarity: 0.7}
	assert.InDelta(t, 0.7666, p.OverallClarity(), 0.001)
	assert.True(t, p.ReadyForAnalysis())
	assert.Equal(t, ClarityMostlyClear, p.Level())
}

func TestProblemClarity_EmptyFieldsScoreZero(t *testing.T) {
	p := ProblemClarity{}
	assert.Zero(t, p.OverallClarity())
	assert.False(t, p.ReadyForAnalysis())
	assert.Equal(t, ClarityUnclear, p.Level())
}

func TestProblemClarity_Clamp(t *testing.T) {
	p := ProblemClarity{WhatClarity: 1.5, WhoClarity: -0.2, SuccessClarity: 0.5}
	p.Clamp()
	assert.Equal(t, 1.0, p.WhatClarity)
	assert.Equal(t, 0.0, p.WhoClarity)
	assert.InDelta(t, 0.5, p.OverallClarity(), 0.001)
}

func TestProblemClarity_Levels(t *testing.T) {
	cases := []struct {
		score float64
		level ClarityLevel
	}{
		{0.1, ClarityUnclear},
		{0.45, ClarityPartial},
		{0.7, ClarityMostlyClear},
		{0.9, ClarityClear},
	}
	for _, tc := range cases {
		p := ProblemClarity{WhatClarity: tc.score, WhoClarity: tc.score, SuccessClarity: tc.score}
		assert.Equal(t, tc.level, p.Level(), "score %v", tc.score)
	}
}

func TestConversationSummary_Bound(t *testing.T) {
	s := ConversationSummary{TurnCount: 40}
	for i := 0; i < 30; i++ {
		s.KeyPoints = append(s.KeyPoints, "point")
		s.UserGoals = append(s.UserGoals, "goal")
	}
	s.KeyPoints[29] = "latest point"

	s.Bound(0) // applies the default cap

	assert.Len(t, s.KeyPoints, DefaultSummaryCap)
	assert.Len(t, s.UserGoals, DefaultSummaryCap)
	assert.Equal(t, "latest point", s.KeyPoints[len(s.KeyPoints)-1], "keeps the most recent entries")
	assert.Equal(t, 40, s.TurnCount)
}

func TestContext_Derive(t *testing.T) {
	base := &Context{
		HandoffID:       NewHandoffID(),
		Timestamp:       time.Now(),
		ProblemClarity:  ProblemClarity{What: "churn", WhatClarity: 0.8},
		TaskDescription: "analyze",
		FromAgent:       "larry",
		ToAgent:         "minto",
		ReturnTo:        "larry",
		PreviousAnalyses: []PriorAnalysis{
			{FrameworkID: "jtbd", Output: "jobs"},
		},
	}

	prior := PriorAnalysis{FrameworkID: "minto", Output: "SCQA"}
	derived := base.Derive(prior)

	assert.NotEqual(t, base.HandoffID, derived.HandoffID, "derived context gets a fresh id")
	assert.Equal(t, base.ProblemClarity, derived.ProblemClarity)
	require.Len(t, derived.PreviousAnalyses, 2)
	assert.Equal(t, "minto", derived.PreviousAnalyses[1].FrameworkID)

	// The base context stays untouched.
	assert.Len(t, base.PreviousAnalyses, 1)
}

func TestContext_DeriveIsolation(t *testing.T) {
	base := &Context{
		HandoffID:  NewHandoffID(),
		FocusAreas: []string{"pricing"},
		Metadata:   map[string]any{"k": "v"},
	}

	derived := base.Derive()
	derived.FocusAreas[0] = "mutated"
	derived.Metadata["k"] = "mutated"

	assert.Equal(t, "pricing", base.FocusAreas[0])
	assert.Equal(t, "v", base.Metadata["k"])
}

func TestContext_Targets(t *testing.T) {
	hc := &Context{}
	assert.Nil(t, hc.Targets())

	hc.SetTargets([]string{"minto", "porter"})
	assert.Equal(t, []string{"minto", "porter"}, hc.Targets())

	// Lists deserialized from JSON arrive as []any.
	hc.Metadata[MetaTargets] = []any{"a", "b"}
	assert.Equal(t, []string{"a", "b"}, hc.Targets())
}

func TestNewHandoffID_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewHandoffID()
		assert.False(t, seen[id])
		seen[id] = true
	}
}
