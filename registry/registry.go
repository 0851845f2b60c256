package registry

import (
	"context"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/mindrian/handoffcore/handoff"
	"github.com/mindrian/handoffcore/types"
)

// Unit is an invocable analytical agent. The core treats it as an opaque
// function: everything about prompts, scoring, and tone lives behind this
// interface. A Unit may fail by returning an error; the strategy layer
// converts that into a failed Result.
type Unit interface {
	Process(ctx context.Context, hc *handoff.Context) (*handoff.Result, error)
}

// UnitFunc adapts a plain function to the Unit interface.
type UnitFunc func(ctx context.Context, hc *handoff.Context) (*handoff.Result, error)

// Process implements Unit.
func (f UnitFunc) Process(ctx context.Context, hc *handoff.Context) (*handoff.Result, error) {
	return f(ctx, hc)
}

// Kind classifies an agent for documentation and selection hints. The core
// never branches on it at runtime; every kind exposes the same Process
// capability.
type Kind string

const (
	KindRole          Kind = "role"
	KindOperator      Kind = "operator"
	KindCollaborative Kind = "collaborative"
	KindPipeline      Kind = "pipeline"
	KindGuided        Kind = "guided"
)

// Registration describes a registered agent.
type Registration struct {
	ID           string
	Kind         Kind
	Description  string
	Triggers     []string
	ProblemTypes []string

	unit Unit
}

// Option customizes a registration.
type Option func(*Registration)

// WithKind sets the agent kind hint.
func WithKind(k Kind) Option {
	return func(r *Registration) { r.Kind = k }
}

// WithDescription sets the human-readable description.
func WithDescription(d string) Option {
	return func(r *Registration) { r.Description = d }
}

// WithTriggers sets the trigger keywords used by the router.
func WithTriggers(triggers ...string) Option {
	return func(r *Registration) { r.Triggers = triggers }
}

// WithProblemTypes sets the problem types this agent specializes in.
func WithProblemTypes(kinds ...string) Option {
	return func(r *Registration) { r.ProblemTypes = kinds }
}

// Registry maps agent ids to invocable units. Read-mostly after startup;
// safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	agents map[string]*Registration
	logger *zap.Logger
}

// New creates an empty registry.
func New(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		agents: make(map[string]*Registration),
		logger: logger.With(zap.String("component", "agent_registry")),
	}
}

// Register adds an agent under the given id. It fails with a DUPLICATE_AGENT
// error if the id is already taken; use Replace for an explicit override.
func (r *Registry) Register(id string, unit Unit, opts ...Option) error {
	if id == "" || unit == nil {
		return types.NewError(types.ErrInvalidContext, "registration needs an id and a unit")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.agents[id]; exists {
		return types.Errorf(types.ErrDuplicateAgent, "agent %q already registered", id).WithAgent(id)
	}
	r.register(id, unit, opts)
	return nil
}

// Replace registers an agent under the given id, overriding any existing
// registration.
func (r *Registry) Replace(id string, unit Unit, opts ...Option) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.register(id, unit, opts)
}

func (r *Registry) register(id string, unit Unit, opts []Option) {
	reg := &Registration{ID: id, Kind: KindRole, unit: unit}
	for _, opt := range opts {
		opt(reg)
	}
	r.agents[id] = reg
	r.logger.Info("registered agent", zap.String("id", id), zap.String("kind", string(reg.Kind)))
}

// Deregister removes an agent. Removing an unknown id is a no-op.
func (r *Registry) Deregister(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.agents, id)
}

// Resolve returns the unit registered under id, or an UNKNOWN_AGENT error.
func (r *Registry) Resolve(id string) (Unit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reg, ok := r.agents[id]
	if !ok {
		return nil, types.Errorf(types.ErrUnknownAgent, "agent %q not registered", id).WithAgent(id)
	}
	return reg.unit, nil
}

// Lookup returns the full registration for id.
func (r *Registry) Lookup(id string) (*Registration, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	reg, ok := r.agents[id]
	return reg, ok
}

// Has reports whether id is registered.
func (r *Registry) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.agents[id]
	return ok
}

// List returns all registered agent ids in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.agents))
	for id := range r.agents {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of registered agents.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.agents)
}
