package orchestrator

import (
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/mindrian/handoffcore/config"
	"github.com/mindrian/handoffcore/handoff"
	"github.com/mindrian/handoffcore/internal/metrics"
	"github.com/mindrian/handoffcore/persistence"
	"github.com/mindrian/handoffcore/registry"
	"github.com/mindrian/handoffcore/synthesis"
)

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the structured logger.
func WithLogger(logger *zap.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithConfig applies orchestrator tuning.
func WithConfig(cfg config.OrchestratorConfig) Option {
	return func(m *Manager) { m.cfg = cfg }
}

// WithSynthesizer replaces the default synthesizer.
func WithSynthesizer(s *synthesis.Synthesizer) Option {
	return func(m *Manager) {
		if s != nil {
			m.synth = s
		}
	}
}

// WithEscalator sets the escalation boundary for results that need human
// input.
func WithEscalator(e Escalator) Option {
	return func(m *Manager) { m.escalator = e }
}

// WithRecordStore enables write-through persistence of handoff records.
func WithRecordStore(store persistence.RecordStore) Option {
	return func(m *Manager) { m.store = store }
}

// WithMetrics enables prometheus instrumentation.
func WithMetrics(c *metrics.Collector) Option {
	return func(m *Manager) { m.metrics = c }
}

// WithRouter replaces the default keyword router used by selective mode.
func WithRouter(r registry.Router) Option {
	return func(m *Manager) {
		if r != nil {
			m.router = r
		}
	}
}

// WithInvocationLimit paces unit invocations at rps with the given burst.
func WithInvocationLimit(rps float64, burst int) Option {
	return func(m *Manager) {
		if rps > 0 {
			if burst <= 0 {
				burst = 1
			}
			m.limiter = rate.NewLimiter(rate.Limit(rps), burst)
		}
	}
}

// WithOnHandoffStart registers a callback invoked synchronously right before
// a handoff is dispatched.
func WithOnHandoffStart(fn func(*handoff.Context)) Option {
	return func(m *Manager) { m.onStart = fn }
}

// WithOnHandoffComplete registers a callback invoked synchronously with the
// final result of every handoff.
func WithOnHandoffComplete(fn func(*handoff.Context, *handoff.Result)) Option {
	return func(m *Manager) { m.onComplete = fn }
}

// DelegationOption customizes a context created by the Manager.
type DelegationOption func(*handoff.Context)

// WithMode sets the execution strategy.
func WithMode(mode handoff.Mode) DelegationOption {
	return func(hc *handoff.Context) { hc.Mode = mode }
}

// WithTimeout bounds the handoff's execution.
func WithTimeout(d time.Duration) DelegationOption {
	return func(hc *handoff.Context) { hc.Timeout = d }
}

// WithExpectedOutput describes the desired output format.
func WithExpectedOutput(desc string) DelegationOption {
	return func(hc *handoff.Context) { hc.ExpectedOutput = desc }
}

// WithFocusAreas directs the receiving agent's attention.
func WithFocusAreas(areas ...string) DelegationOption {
	return func(hc *handoff.Context) { hc.FocusAreas = areas }
}

// WithIgnoreAreas declares territory the receiving agent should skip.
func WithIgnoreAreas(areas ...string) DelegationOption {
	return func(hc *handoff.Context) { hc.IgnoreAreas = areas }
}

// WithConversation attaches the conversation summary.
func WithConversation(cs handoff.ConversationSummary) DelegationOption {
	return func(hc *handoff.Context) { hc.Conversation = cs }
}

// WithPriors seeds the context with earlier analyses.
func WithPriors(priors ...handoff.PriorAnalysis) DelegationOption {
	return func(hc *handoff.Context) { hc.PreviousAnalyses = priors }
}

// WithReturnBehavior sets how results come back to the delegator.
func WithReturnBehavior(rb handoff.ReturnBehavior) DelegationOption {
	return func(hc *handoff.Context) { hc.ReturnBehavior = rb }
}

// WithTargets sets the agents a multi-agent mode fans out to.
func WithTargets(targets ...string) DelegationOption {
	return func(hc *handoff.Context) { hc.SetTargets(targets) }
}

// WithPriority sets the handoff priority (1=normal, 2=high, 3=urgent).
func WithPriority(p int) DelegationOption {
	return func(hc *handoff.Context) { hc.Priority = p }
}

// WithSessionID ties the handoff to a conversation session.
func WithSessionID(id string) DelegationOption {
	return func(hc *handoff.Context) { hc.SessionID = id }
}
