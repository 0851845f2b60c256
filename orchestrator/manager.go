package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/mindrian/handoffcore/config"
	"github.com/mindrian/handoffcore/handoff"
	"github.com/mindrian/handoffcore/internal/metrics"
	"github.com/mindrian/handoffcore/persistence"
	"github.com/mindrian/handoffcore/registry"
	"github.com/mindrian/handoffcore/strategy"
	"github.com/mindrian/handoffcore/synthesis"
	"github.com/mindrian/handoffcore/types"
)

const tracerName = "github.com/mindrian/handoffcore/orchestrator"

// Manager coordinates handoffs between registered agents.
//
// A handoff is a value, not a control transfer: failed agents produce failed
// results, and Execute always returns a result the caller can inspect.
type Manager struct {
	reg       *registry.Registry
	router    registry.Router
	cfg       config.OrchestratorConfig
	logger    *zap.Logger
	synth     *synthesis.Synthesizer
	escalator Escalator
	store     persistence.RecordStore
	metrics   *metrics.Collector
	limiter   *rate.Limiter
	tracer    trace.Tracer

	onStart    func(*handoff.Context)
	onComplete func(*handoff.Context, *handoff.Result)

	mu      sync.Mutex
	history []*handoff.Result
	active  map[string]*handoff.Context
}

// NewManager creates a Manager over the given registry.
func NewManager(reg *registry.Registry, opts ...Option) *Manager {
	m := &Manager{
		reg:    reg,
		cfg:    config.DefaultConfig().Orchestrator,
		logger: zap.NewNop(),
		tracer: otel.Tracer(tracerName),
		active: make(map[string]*handoff.Context),
	}
	for _, opt := range opts {
		opt(m)
	}

	m.logger = m.logger.With(zap.String("component", "orchestrator"))
	if m.router == nil {
		m.router = registry.NewKeywordRouter(reg)
	}
	if m.synth == nil {
		m.synth = synthesis.New(m.logger)
		if m.cfg.ConfidenceThreshold > 0 {
			m.synth.ConfidenceThreshold = m.cfg.ConfidenceThreshold
		}
	}
	if m.limiter == nil && m.cfg.InvocationRate > 0 {
		m.limiter = rate.NewLimiter(rate.Limit(m.cfg.InvocationRate), 1)
	}
	return m
}

// CreateDelegation builds a delegate handoff from one agent to another. The
// target must be registered; the sender need not be. Defaults: sequential
// mode, synthesize return behavior, the configured default timeout, and
// return_to = from.
func (m *Manager) CreateDelegation(from, to, task string, clarity handoff.ProblemClarity, opts ...DelegationOption) (*handoff.Context, error) {
	if !m.reg.Has(to) {
		return nil, types.Errorf(types.ErrUnknownAgent, "agent %q is not registered", to).WithAgent(to)
	}
	if task == "" {
		return nil, types.NewError(types.ErrInvalidContext, "task description is required")
	}

	clarity.Clamp()
	hc := &handoff.Context{
		HandoffID:       handoff.NewHandoffID(),
		Timestamp:       time.Now(),
		ProblemClarity:  clarity,
		TaskDescription: task,
		FromAgent:       from,
		ToAgent:         to,
		ReturnTo:        from,
		ReturnBehavior:  handoff.ReturnSynthesize,
		Type:            handoff.TypeDelegate,
		Mode:            handoff.ModeSequential,
		Timeout:         m.cfg.DefaultTimeout,
	}
	for _, opt := range opts {
		opt(hc)
	}
	return hc, nil
}

// CreateTransfer builds a transfer handoff: ownership moves to the target and
// nothing comes back, so the return behavior is passthrough and return_to is
// empty.
func (m *Manager) CreateTransfer(from, to, task string, clarity handoff.ProblemClarity, opts ...DelegationOption) (*handoff.Context, error) {
	hc, err := m.CreateDelegation(from, to, task, clarity)
	if err != nil {
		return nil, err
	}
	hc.Type = handoff.TypeTransfer
	hc.ReturnTo = ""
	hc.ReturnBehavior = handoff.ReturnPassthrough
	for _, opt := range opts {
		opt(hc)
	}
	return hc, nil
}

// CreateReturn builds the handoff that carries finished work back to the
// original delegator. The return target is whoever asked for the work, which
// may be a caller outside the registry, so it is not validated.
func (m *Manager) CreateReturn(original *handoff.Context, task string, priors ...handoff.PriorAnalysis) (*handoff.Context, error) {
	if original == nil {
		return nil, types.NewError(types.ErrInvalidContext, "original context is required")
	}
	if original.ReturnTo == "" {
		return nil, types.NewError(types.ErrInvalidContext, "original context has no return target")
	}

	hc := original.Derive(priors...)
	hc.FromAgent = original.ToAgent
	hc.ToAgent = original.ReturnTo
	hc.ReturnTo = ""
	hc.Type = handoff.TypeReturn
	hc.Mode = handoff.ModeSequential
	hc.ReturnBehavior = handoff.ReturnPassthrough
	if task != "" {
		hc.TaskDescription = task
	}
	return hc, nil
}

// Execute runs a handoff to completion and returns the final result. The
// context's timeout (or the configured default) bounds the whole execution,
// including every iterate round. Execute never returns an error: failures
// surface as failed results.
func (m *Manager) Execute(ctx context.Context, hc *handoff.Context) *handoff.Result {
	if hc == nil {
		return &handoff.Result{
			Success:   false,
			Error:     "nil handoff context",
			Timestamp: time.Now(),
		}
	}
	if hc.ToAgent == "" && len(hc.Targets()) == 0 {
		return handoff.NewFailure(hc, "handoff context has no target agent")
	}

	timeout := hc.Timeout
	if timeout <= 0 {
		timeout = m.cfg.DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ctx, span := m.tracer.Start(ctx, "handoff.execute",
		trace.WithAttributes(
			attribute.String("handoff.id", hc.HandoffID),
			attribute.String("handoff.mode", string(hc.Mode)),
			attribute.String("handoff.from", hc.FromAgent),
			attribute.String("handoff.to", hc.ToAgent),
		))
	defer span.End()

	start := time.Now()
	m.logger.Info("executing handoff",
		zap.String("handoff_id", hc.HandoffID),
		zap.String("mode", string(hc.Mode)),
		zap.String("from", hc.FromAgent),
		zap.String("to", hc.ToAgent),
	)

	m.mu.Lock()
	m.active[hc.HandoffID] = hc
	m.mu.Unlock()
	defer func() {
		m.mu.Lock()
		delete(m.active, hc.HandoffID)
		m.mu.Unlock()
	}()

	if m.onStart != nil {
		m.onStart(hc)
	}

	results := m.dispatch(ctx, hc, m.targetsOf(hc))
	final := m.applyReturnBehavior(ctx, hc, results)
	duration := time.Since(start)

	if final.Duration == 0 {
		final.Duration = duration
	}
	if !final.Success {
		span.SetStatus(codes.Error, final.Error)
	}

	if m.metrics != nil {
		m.metrics.RecordHandoff(string(hc.Mode), final.Success, duration)
	}
	if final.NeedsHumanInput {
		m.escalate(final, hc)
	}

	m.record(hc, final, duration)

	m.mu.Lock()
	m.history = append(m.history, final)
	m.mu.Unlock()

	if m.onComplete != nil {
		m.onComplete(hc, final)
	}

	m.logger.Info("handoff complete",
		zap.String("handoff_id", hc.HandoffID),
		zap.Bool("success", final.Success),
		zap.Float64("confidence", final.Confidence),
		zap.Duration("duration", duration),
	)
	return final
}

// ExecuteSequential runs the targets as a chain, each seeing its
// predecessors' analyses.
func (m *Manager) ExecuteSequential(ctx context.Context, hc *handoff.Context, targets []string) []*handoff.Result {
	ctx, cancel := m.bound(ctx, hc)
	defer cancel()
	return strategy.NewSequential(m, m.logger).Execute(ctx, hc, targets)
}

// ExecuteParallel fans the same context out to every target concurrently.
func (m *Manager) ExecuteParallel(ctx context.Context, hc *handoff.Context, targets []string) []*handoff.Result {
	ctx, cancel := m.bound(ctx, hc)
	defer cancel()
	par := strategy.NewParallel(m, m.logger)
	par.MaxConcurrent = m.cfg.MaxParallel
	return par.Execute(ctx, hc, targets)
}

// ExecuteSelective routes the context to the single best-matching target.
func (m *Manager) ExecuteSelective(ctx context.Context, hc *handoff.Context, targets []string) []*handoff.Result {
	ctx, cancel := m.bound(ctx, hc)
	defer cancel()
	return strategy.NewSelective(m, m.router, m.logger).Execute(ctx, hc, targets)
}

// ExecuteDebate runs the targets through adversarial rounds.
func (m *Manager) ExecuteDebate(ctx context.Context, hc *handoff.Context, targets []string) []*handoff.Result {
	ctx, cancel := m.bound(ctx, hc)
	defer cancel()
	deb := strategy.NewDebate(m, m.logger)
	if m.cfg.DebateRounds > 0 {
		deb.Rounds = m.cfg.DebateRounds
	}
	return deb.Execute(ctx, hc, targets)
}

// History returns a copy of the append-only execution log.
func (m *Manager) History() []*handoff.Result {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*handoff.Result, len(m.history))
	copy(out, m.history)
	return out
}

// ClearHistory drops the execution log. Handoffs still in flight are
// unaffected and will append their results as usual.
func (m *Manager) ClearHistory() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.history = nil
}

// Handoff returns the most recent recorded result for the given handoff id.
func (m *Manager) Handoff(handoffID string) (*handoff.Result, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.history) - 1; i >= 0; i-- {
		if m.history[i].HandoffID == handoffID {
			return m.history[i], true
		}
	}
	return nil, false
}

// ActiveHandoffs returns the contexts currently being executed.
func (m *Manager) ActiveHandoffs() []*handoff.Context {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*handoff.Context, 0, len(m.active))
	for _, hc := range m.active {
		out = append(out, hc)
	}
	return out
}

// Invoke resolves and runs a single unit, turning every failure mode — an
// unknown agent, a returned error, a panic, an expired context — into a
// failed result.
func (m *Manager) Invoke(ctx context.Context, hc *handoff.Context) (res *handoff.Result) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("agent panicked",
				zap.String("agent", hc.ToAgent),
				zap.Any("panic", r),
			)
			res = handoff.NewFailure(hc, fmt.Sprintf("agent panic: %v", r))
		}
		res.Duration = time.Since(start)
		if m.metrics != nil {
			m.metrics.RecordInvocation(hc.ToAgent, res.Success, res.Duration)
		}
	}()

	if m.limiter != nil {
		if err := m.limiter.Wait(ctx); err != nil {
			return handoff.NewFailure(hc, ctxErrorText(ctx))
		}
	}

	unit, err := m.reg.Resolve(hc.ToAgent)
	if err != nil {
		return handoff.NewFailure(hc, err.Error())
	}
	if ctx.Err() != nil {
		return handoff.NewFailure(hc, ctxErrorText(ctx))
	}

	out, err := unit.Process(ctx, hc)
	if err != nil {
		if ctx.Err() != nil {
			return handoff.NewFailure(hc, ctxErrorText(ctx))
		}
		return handoff.NewFailure(hc, err.Error())
	}
	if out == nil {
		return handoff.NewFailure(hc, "agent returned no result")
	}
	if verr := out.Validate(); verr != nil {
		return handoff.NewFailure(hc, verr.Error())
	}
	return out
}

func (m *Manager) bound(ctx context.Context, hc *handoff.Context) (context.Context, context.CancelFunc) {
	timeout := m.cfg.DefaultTimeout
	if hc != nil && hc.Timeout > 0 {
		timeout = hc.Timeout
	}
	return context.WithTimeout(ctx, timeout)
}

func (m *Manager) targetsOf(hc *handoff.Context) []string {
	if targets := hc.Targets(); len(targets) > 0 {
		return targets
	}
	return []string{hc.ToAgent}
}

func (m *Manager) dispatch(ctx context.Context, hc *handoff.Context, targets []string) []*handoff.Result {
	switch hc.Mode {
	case handoff.ModeParallel:
		par := strategy.NewParallel(m, m.logger)
		par.MaxConcurrent = m.cfg.MaxParallel
		return par.Execute(ctx, hc, targets)
	case handoff.ModeSelective:
		return strategy.NewSelective(m, m.router, m.logger).Execute(ctx, hc, targets)
	case handoff.ModeDebate:
		deb := strategy.NewDebate(m, m.logger)
		if m.cfg.DebateRounds > 0 {
			deb.Rounds = m.cfg.DebateRounds
		}
		return deb.Execute(ctx, hc, targets)
	default:
		return strategy.NewSequential(m, m.logger).Execute(ctx, hc, targets)
	}
}

func (m *Manager) applyReturnBehavior(ctx context.Context, hc *handoff.Context, results []*handoff.Result) *handoff.Result {
	if len(results) == 0 {
		return handoff.NewFailure(hc, "no agent produced a result")
	}

	switch hc.ReturnBehavior {
	case handoff.ReturnPassthrough:
		return results[0]
	case handoff.ReturnIterate:
		return m.iterate(ctx, hc, results)
	default:
		return m.combine(results, hc)
	}
}

// combine reduces a result set to one result. A single result is already its
// own summary and skips the merge, but the confidence floor still applies to
// it: a lone low-confidence answer escalates the same way a weak synthesis
// does.
func (m *Manager) combine(results []*handoff.Result, hc *handoff.Context) *handoff.Result {
	if len(results) == 1 {
		m.synth.ApplyThreshold(results[0])
		return results[0]
	}
	out := m.synth.Combine(results, hc)
	if m.metrics != nil && out.Success {
		m.metrics.RecordSynthesisConfidence(out.Confidence)
	}
	return out
}

// iterate re-runs the targets with the synthesized output as a seed prior
// until the confidence threshold is met or the iteration cap is hit. A cap
// breach marks the result as needing human input.
func (m *Manager) iterate(ctx context.Context, hc *handoff.Context, results []*handoff.Result) *handoff.Result {
	maxIterations := m.cfg.MaxIterations
	if maxIterations <= 0 {
		maxIterations = 1
	}
	threshold := m.synth.ConfidenceThreshold

	final := m.combine(results, hc)
	round := hc

	for i := 1; i < maxIterations; i++ {
		if final.Success && final.Confidence >= threshold {
			return final
		}
		if ctx.Err() != nil {
			break
		}

		next := round.Derive(final.ToAnalysis())
		m.logger.Debug("iterating handoff",
			zap.String("handoff_id", next.HandoffID),
			zap.Int("iteration", i+1),
			zap.Float64("confidence", final.Confidence),
		)
		final = m.combine(m.dispatch(ctx, next, m.targetsOf(next)), next)
		round = next
	}

	if !final.Success || final.Confidence < threshold {
		final.NeedsHumanInput = true
		reason := fmt.Sprintf("confidence %.2f still below %.2f after %d iterations", final.Confidence, threshold, maxIterations)
		if final.HumanInputReason != "" {
			reason = strings.Join([]string{final.HumanInputReason, reason}, "; ")
		}
		final.HumanInputReason = reason
	}
	return final
}

// escalate hands the result to the escalation boundary without waiting.
func (m *Manager) escalate(res *handoff.Result, hc *handoff.Context) {
	if m.metrics != nil {
		m.metrics.RecordEscalation()
	}
	if m.escalator == nil {
		return
	}
	go m.escalator.Escalate(context.Background(), res, hc)
}

// record writes the handoff trace through the optional store. The execution
// context may already be expired, so the write gets its own deadline.
func (m *Manager) record(hc *handoff.Context, final *handoff.Result, duration time.Duration) {
	if m.store == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rec := &persistence.HandoffRecord{
		HandoffID:       final.HandoffID,
		Mode:            string(hc.Mode),
		FromAgent:       hc.FromAgent,
		ToAgent:         hc.ToAgent,
		Success:         final.Success,
		Error:           final.Error,
		Confidence:      final.Confidence,
		Output:          final.Output,
		NeedsHumanInput: final.NeedsHumanInput,
		DurationMS:      duration.Milliseconds(),
	}
	if err := m.store.Save(ctx, rec); err != nil {
		m.logger.Warn("failed to persist handoff record",
			zap.String("handoff_id", final.HandoffID),
			zap.Error(err),
		)
	}
}

func ctxErrorText(ctx context.Context) string {
	if ctx.Err() == context.Canceled {
		return handoff.ErrorTextCanceled
	}
	return handoff.ErrorTextTimeout
}
