package registry

import (
	"sort"
	"strings"
)

// Router selects candidate agents for a set of routing signals. Callers
// consult it before delegating; the core itself only uses it for the
// Selective execution mode.
type Router interface {
	// SelectCandidates returns agent ids ordered best-first for the given
	// trigger phrases and problem types. An empty slice means no candidate
	// matched.
	SelectCandidates(triggers []string, problemTypes []string) []string
}

// RouterFunc adapts a plain function to the Router interface.
type RouterFunc func(triggers []string, problemTypes []string) []string

// SelectCandidates implements Router.
func (f RouterFunc) SelectCandidates(triggers []string, problemTypes []string) []string {
	return f(triggers, problemTypes)
}

// KeywordRouter ranks registered agents by case-insensitive substring
// matches between the given signals and each registration's triggers and
// problem types. Ties break by agent id for deterministic output.
type KeywordRouter struct {
	registry *Registry
}

// NewKeywordRouter creates a router over the given registry.
func NewKeywordRouter(reg *Registry) *KeywordRouter {
	return &KeywordRouter{registry: reg}
}

// SelectCandidates implements Router.
func (r *KeywordRouter) SelectCandidates(triggers []string, problemTypes []string) []string {
	r.registry.mu.RLock()
	defer r.registry.mu.RUnlock()

	type candidate struct {
		id    string
		score int
	}

	var candidates []candidate
	for id, reg := range r.registry.agents {
		score := matchCount(triggers, reg.Triggers) + matchCount(problemTypes, reg.ProblemTypes)
		if score > 0 {
			candidates = append(candidates, candidate{id: id, score: score})
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].id < candidates[j].id
	})

	ids := make([]string, 0, len(candidates))
	for _, c := range candidates {
		ids = append(ids, c.id)
	}
	return ids
}

func matchCount(signals, declared []string) int {
	count := 0
	for _, signal := range signals {
		s := strings.ToLower(strings.TrimSpace(signal))
		if s == "" {
			continue
		}
		for _, d := range declared {
			if strings.Contains(strings.ToLower(d), s) || strings.Contains(s, strings.ToLower(d)) {
				count++
				break
			}
		}
	}
	return count
}
