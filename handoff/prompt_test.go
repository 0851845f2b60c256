package handoff

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContext_ToPrompt(t *testing.T) {
	hc := &Context{
		HandoffID: "abc123",
		ProblemClarity: ProblemClarity{
			What: "churn", WhatClarity: 0.8,
			Who: "SaaS founders", WhoClarity: 0.8,
			Success: "reduce churn", SuccessClarity: 0.7,
		},
		Conversation: ConversationSummary{
			UserGoals: []string{"keep customers"},
		},
		PreviousAnalyses: []PriorAnalysis{
			{FrameworkName: "jtbd", KeyFindings: []string{"switching is painful"}},
		},
		TaskDescription: "Structure the churn problem",
		ExpectedOutput:  "SCQA outline",
		FocusAreas:      []string{"pricing"},
		IgnoreAreas:     []string{"marketing"},
		FromAgent:       "larry",
		ToAgent:         "minto",
		ReturnTo:        "larry",
		ReturnBehavior:  ReturnSynthesize,
	}

	prompt := hc.ToPrompt()

	assert.Contains(t, prompt, "# Handoff from larry")
	assert.Contains(t, prompt, "Handoff ID: abc123")
	assert.Contains(t, prompt, "Structure the churn problem")
	assert.Contains(t, prompt, "**Expected Output:** SCQA outline")
	assert.Contains(t, prompt, "## Problem Clarity Assessment")
	assert.Contains(t, prompt, "## Conversation Context")
	assert.Contains(t, prompt, "### jtbd")
	assert.Contains(t, prompt, "- switching is painful")
	assert.Contains(t, prompt, "## Focus Areas")
	assert.Contains(t, prompt, "## Areas to Skip")
	assert.Contains(t, prompt, "Return your results to: **larry**")
}

func TestProblemClarity_ToPrompt_Empty(t *testing.T) {
	p := ProblemClarity{}
	prompt := p.ToPrompt()

	assert.Contains(t, prompt, "[Not yet clear]")
	assert.Contains(t, prompt, "- None identified")
	assert.Contains(t, prompt, "- None remaining")
}

func TestResult_ToPrompt(t *testing.T) {
	hc := testContext()
	r := NewSuccess(hc, "the analysis")
	r.KeyFindings = []string{"finding"}
	r.Confidence = 0.8
	r.SuggestedNextAgents = []string{"porter"}

	prompt := r.ToPrompt()
	assert.Contains(t, prompt, "# Results from minto")
	assert.Contains(t, prompt, "the analysis")
	assert.Contains(t, prompt, "- finding")
	assert.Contains(t, prompt, "**Confidence:** 80%")
	assert.Contains(t, prompt, "- Consult porter")

	failed := NewFailure(hc, "timeout")
	assert.Contains(t, failed.ToPrompt(), "**ERROR:** timeout")
}
