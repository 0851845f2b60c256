package synthesis

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mindrian/handoffcore/handoff"
	"github.com/mindrian/handoffcore/types"
)

// DefaultConfidenceThreshold is the synthesized-confidence floor below which
// human input is requested.
const DefaultConfidenceThreshold = 0.5

// Synthesizer reduces a list of results plus the originating context into a
// single summary result.
type Synthesizer struct {
	// ConfidenceThreshold triggers needs_human_input when the synthesized
	// confidence falls below it.
	ConfidenceThreshold float64

	logger *zap.Logger
}

// New creates a synthesizer with the default confidence threshold.
func New(logger *zap.Logger) *Synthesizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Synthesizer{
		ConfidenceThreshold: DefaultConfidenceThreshold,
		logger:              logger.With(zap.String("component", "synthesizer")),
	}
}

// Combine merges results into one summary result carrying the originating
// context's handoff identity. When every contributor failed, the summary is
// a single failed result aggregating all error messages.
func (s *Synthesizer) Combine(results []*handoff.Result, hc *handoff.Context) *handoff.Result {
	successes := make([]*handoff.Result, 0, len(results))
	var failures []*handoff.Result
	for _, r := range results {
		if r.Success {
			successes = append(successes, r)
		} else {
			failures = append(failures, r)
		}
	}

	if len(successes) == 0 {
		return s.allFailed(failures, hc)
	}

	out := &handoff.Result{
		HandoffID:    hc.HandoffID,
		FromAgent:    hc.ToAgent,
		ToAgent:      hc.ReturnTo,
		Success:      true,
		OutputFormat: "markdown",
		Timestamp:    time.Now(),
	}

	var sections []string
	seenFindings := make(map[string]bool)
	seenRecs := make(map[string]bool)
	seenAgents := make(map[string]bool)
	seenQuestions := make(map[string]bool)
	var reasons []string

	for _, r := range successes {
		sections = append(sections, fmt.Sprintf("## %s\n%s", r.FromAgent, r.Output))

		for _, f := range r.KeyFindings {
			if !seenFindings[f] {
				seenFindings[f] = true
				out.KeyFindings = append(out.KeyFindings, f)
			}
		}
		for _, rec := range r.Recommendations {
			if !seenRecs[rec] {
				seenRecs[rec] = true
				out.Recommendations = append(out.Recommendations, rec)
			}
		}
		for _, a := range r.SuggestedNextAgents {
			if !seenAgents[a] {
				seenAgents[a] = true
				out.SuggestedNextAgents = append(out.SuggestedNextAgents, a)
			}
		}
		for _, q := range r.OpenQuestions {
			if !seenQuestions[q] {
				seenQuestions[q] = true
				out.OpenQuestions = append(out.OpenQuestions, q)
			}
		}
		if r.NeedsHumanInput {
			out.NeedsHumanInput = true
			if r.HumanInputReason != "" {
				reasons = append(reasons, r.HumanInputReason)
			}
		}
	}

	out.Output = strings.Join(sections, "\n\n---\n\n")
	out.Confidence = dampedConfidence(successes)

	if out.Confidence < s.threshold() {
		out.NeedsHumanInput = true
		reasons = append(reasons, fmt.Sprintf("synthesized confidence %.2f below threshold %.2f", out.Confidence, s.threshold()))
	}
	out.HumanInputReason = strings.Join(reasons, "; ")

	s.logger.Debug("synthesis complete",
		zap.String("handoff_id", hc.HandoffID),
		zap.Int("contributors", len(successes)),
		zap.Int("failed", len(failures)),
		zap.Float64("confidence", out.Confidence),
		zap.Bool("needs_human_input", out.NeedsHumanInput),
	)

	return out
}

// allFailed aggregates every contributor's error into one failed result.
func (s *Synthesizer) allFailed(failures []*handoff.Result, hc *handoff.Context) *handoff.Result {
	msgs := make([]string, 0, len(failures))
	for _, r := range failures {
		msgs = append(msgs, fmt.Sprintf("%s: %s", r.FromAgent, r.Error))
	}
	errText := string(types.ErrSynthesis) + ": no contributing result succeeded"
	if len(msgs) > 0 {
		errText = fmt.Sprintf("%s (%s)", errText, strings.Join(msgs, "; "))
	}

	out := handoff.NewFailure(hc, errText)
	out.NeedsHumanInput = true
	out.HumanInputReason = "all delegated agents failed"
	return out
}

// ApplyThreshold flags a successful result whose confidence falls below the
// synthesizer's floor. Used for results that skip the merge step (a handoff
// with a single contributor) so the confidence floor holds regardless of how
// many agents answered.
func (s *Synthesizer) ApplyThreshold(res *handoff.Result) {
	if res == nil || !res.Success || res.Confidence >= s.threshold() {
		return
	}
	res.NeedsHumanInput = true
	reason := fmt.Sprintf("confidence %.2f below threshold %.2f", res.Confidence, s.threshold())
	if res.HumanInputReason != "" {
		reason = res.HumanInputReason + "; " + reason
	}
	res.HumanInputReason = reason
}

func (s *Synthesizer) threshold() float64 {
	if s.ConfidenceThreshold <= 0 {
		return DefaultConfidenceThreshold
	}
	return s.ConfidenceThreshold
}

// dampedConfidence aggregates contributor confidences as sum(c_i^2)/n: each
// contributor's confidence is weighted by itself before averaging. This is
// not a plain mean — a 0.1-confidence contributor adds almost nothing
// (0.01), so shaky contributors drag the aggregate well below the arithmetic
// average, and the aggregate never exceeds the best contributor.
func dampedConfidence(results []*handoff.Result) float64 {
	if len(results) == 0 {
		return 0
	}
	var sum float64
	for _, r := range results {
		c := r.Confidence
		if c < 0 {
			c = 0
		}
		if c > 1 {
			c = 1
		}
		sum += c * c
	}
	return sum / float64(len(results))
}
