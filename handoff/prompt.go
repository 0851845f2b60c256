package handoff

import (
	"fmt"
	"strings"
)

// ToPrompt renders the complete prompt context the receiving agent sees.
func (c *Context) ToPrompt() string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Handoff from %s\n", c.FromAgent)
	fmt.Fprintf(&b, "*Handoff ID: %s*\n\n", c.HandoffID)

	b.WriteString("## Your Task\n")
	b.WriteString(c.TaskDescription)
	b.WriteString("\n")
	if c.ExpectedOutput != "" {
		fmt.Fprintf(&b, "\n**Expected Output:** %s\n", c.ExpectedOutput)
	}

	b.WriteString("\n")
	b.WriteString(c.ProblemClarity.ToPrompt())

	if conv := c.Conversation.ToPrompt(); conv != "" {
		b.WriteString("\n")
		b.WriteString(conv)
	}

	if len(c.PreviousAnalyses) > 0 {
		b.WriteString("\n## Previous Analyses\n")
		for _, a := range c.PreviousAnalyses {
			fmt.Fprintf(&b, "\n### %s\n", a.FrameworkName)
			writeBullets(&b, "**Key Findings:**", a.KeyFindings)
			writeBullets(&b, "**Recommendations:**", a.Recommendations)
		}
	}

	if len(c.FocusAreas) > 0 {
		b.WriteString("\n## Focus Areas\n")
		for _, f := range c.FocusAreas {
			fmt.Fprintf(&b, "- %s\n", f)
		}
	}
	if len(c.IgnoreAreas) > 0 {
		b.WriteString("\n## Areas to Skip\n")
		for _, i := range c.IgnoreAreas {
			fmt.Fprintf(&b, "- %s\n", i)
		}
	}

	b.WriteString("\n## Return Instructions\n")
	fmt.Fprintf(&b, "Return your results to: **%s**\n", c.ReturnTo)
	fmt.Fprintf(&b, "Return behavior: **%s**\n", c.ReturnBehavior)

	return b.String()
}

// ToPrompt formats the clarity assessment for inclusion in agent prompts.
func (p *ProblemClarity) ToPrompt() string {
	var b strings.Builder

	b.WriteString("## Problem Clarity Assessment\n\n")
	fmt.Fprintf(&b, "**What is the problem?**\n%s\nClarity: %.0f%%\n\n", orUnclear(p.What), p.WhatClarity*100)
	fmt.Fprintf(&b, "**Who has this problem?**\n%s\nClarity: %.0f%%\n\n", orUnclear(p.Who), p.WhoClarity*100)
	fmt.Fprintf(&b, "**What does success look like?**\n%s\nClarity: %.0f%%\n\n", orUnclear(p.Success), p.SuccessClarity*100)
	fmt.Fprintf(&b, "**Overall Clarity:** %.0f%% (%s)\n", p.OverallClarity()*100, p.Level())

	b.WriteString("\n**Assumptions to validate:**\n")
	writeBulletsOr(&b, p.Assumptions, "- None identified\n")
	b.WriteString("\n**Open questions:**\n")
	writeBulletsOr(&b, p.OpenQuestions, "- None remaining\n")

	return b.String()
}

// ToPrompt formats the conversation summary, or returns "" when there is
// nothing worth passing along.
func (s *ConversationSummary) ToPrompt() string {
	if len(s.KeyPoints) == 0 && len(s.UserGoals) == 0 && len(s.Constraints) == 0 && len(s.Preferences) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("## Conversation Context\n")
	writeBullets(&b, "**User's Goals:**", s.UserGoals)
	writeBullets(&b, "**Key Points Discussed:**", s.KeyPoints)
	writeBullets(&b, "**Constraints:**", s.Constraints)
	writeBullets(&b, "**User Preferences:**", s.Preferences)
	return b.String()
}

// ToPrompt formats the result for the next agent or for synthesis.
func (r *Result) ToPrompt() string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Results from %s\n", r.FromAgent)

	if !r.Success {
		fmt.Fprintf(&b, "\n**ERROR:** %s\n", r.Error)
		return b.String()
	}

	fmt.Fprintf(&b, "\n## Output\n%s\n", r.Output)
	writeBullets(&b, "\n## Key Findings", r.KeyFindings)
	writeBullets(&b, "\n## Recommendations", r.Recommendations)

	if len(r.Scores) > 0 {
		b.WriteString("\n## Scores\n")
		for name, score := range r.Scores {
			fmt.Fprintf(&b, "- %s: %g\n", name, score)
		}
	}
	if r.Confidence > 0 {
		fmt.Fprintf(&b, "\n**Confidence:** %.0f%%\n", r.Confidence*100)
	}
	if len(r.SuggestedNextAgents) > 0 {
		b.WriteString("\n## Suggested Next Steps\n")
		for _, a := range r.SuggestedNextAgents {
			fmt.Fprintf(&b, "- Consult %s\n", a)
		}
	}
	writeBullets(&b, "\n## Open Questions", r.OpenQuestions)

	return b.String()
}

func writeBullets(b *strings.Builder, header string, items []string) {
	if len(items) == 0 {
		return
	}
	b.WriteString(header)
	b.WriteString("\n")
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
}

func writeBulletsOr(b *strings.Builder, items []string, empty string) {
	if len(items) == 0 {
		b.WriteString(empty)
		return
	}
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
}

func orUnclear(s string) string {
	if s == "" {
		return "[Not yet clear]"
	}
	return s
}
