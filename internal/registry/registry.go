package registry

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/vyrodovalexey/navlink/internal/pattern"
)

// Registry is the route definition store and resolution engine. All methods
// are safe for concurrent use; readers never observe a half-rebuilt
// resolution order.
type Registry struct {
	mu        sync.RWMutex
	byPattern map[string]*compiled
	ordered   []*compiled
}

// Match is the result of a successful resolution.
type Match struct {
	Definition Definition
	Params     pattern.Params
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		byPattern: make(map[string]*compiled),
	}
}

// Register inserts or replaces a definition, keyed by its raw pattern
// string. The resolution order is rebuilt before the lock is released.
func (r *Registry) Register(def Definition) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byPattern[def.Pattern] = compile(def)
	r.rebuild()
}

// RegisterAll registers a batch of definitions under a single lock
// acquisition, so readers observe either none or all of the batch.
func (r *Registry) RegisterAll(defs []Definition) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, def := range defs {
		r.byPattern[def.Pattern] = compile(def)
	}
	r.rebuild()
}

// Unregister removes a definition by exact raw pattern string and returns
// what was removed.
func (r *Registry) Unregister(rawPattern string) (Definition, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.byPattern[rawPattern]
	if !ok {
		return Definition{}, false
	}

	delete(r.byPattern, rawPattern)
	r.rebuild()
	return c.def, true
}

// Clear removes all definitions.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byPattern = make(map[string]*compiled)
	r.ordered = nil
}

// Resolve returns the first definition in canonical resolution order whose
// pattern matches the path, together with the extracted parameters. A miss
// is an expected, non-exceptional outcome.
func (r *Registry) Resolve(path string) (*Match, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.ordered {
		if !c.valid {
			continue
		}
		if params, ok := c.parsed.Extract(path); ok {
			return &Match{Definition: c.def, Params: params}, true
		}
	}
	return nil, false
}

// Definition returns the definition registered under the exact raw pattern
// string, independent of resolution order.
func (r *Registry) Definition(rawPattern string) (Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.byPattern[rawPattern]
	if !ok {
		return Definition{}, false
	}
	return c.def, true
}

// Find returns all definitions satisfying the predicate, in resolution
// order.
func (r *Registry) Find(predicate func(Definition) bool) []Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Definition
	for _, c := range r.ordered {
		if predicate(c.def) {
			out = append(out, c.def)
		}
	}
	return out
}

// AuthRequired returns all definitions that require authentication.
func (r *Registry) AuthRequired() []Definition {
	return r.Find(func(d Definition) bool {
		return d.RequiresAuth
	})
}

// WithPrefix returns all definitions whose raw pattern starts with the
// given prefix.
func (r *Registry) WithPrefix(prefix string) []Definition {
	return r.Find(func(d Definition) bool {
		return strings.HasPrefix(d.Pattern, prefix)
	})
}

// All returns every definition in canonical resolution order.
func (r *Registry) All() []Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Definition, 0, len(r.ordered))
	for _, c := range r.ordered {
		out = append(out, c.def)
	}
	return out
}

// Len returns the number of registered definitions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byPattern)
}

// DebugDescription returns a human-readable dump of the registered patterns
// in resolution order. Developer diagnostics only; not a stable format.
func (r *Registry) DebugDescription() string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var b strings.Builder
	fmt.Fprintf(&b, "registry: %d route(s)\n", len(r.ordered))
	for _, c := range r.ordered {
		marker := ""
		if !c.valid {
			marker = " [invalid]"
		}
		auth := ""
		if c.def.RequiresAuth {
			auth = " auth"
		}
		fmt.Fprintf(&b, "  priority=%-4d specificity=%-4d %s (%s)%s%s\n",
			c.def.Priority, c.specificity, c.def.Pattern, c.def.Name, auth, marker)
	}
	return b.String()
}

// rebuild recomputes the canonical resolution order. Must be called with
// the write lock held.
func (r *Registry) rebuild() {
	ordered := make([]*compiled, 0, len(r.byPattern))
	for _, c := range r.byPattern {
		ordered = append(ordered, c)
	}

	sort.Slice(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.def.Priority != b.def.Priority {
			return a.def.Priority > b.def.Priority
		}
		if a.specificity != b.specificity {
			return a.specificity > b.specificity
		}
		return a.def.Pattern < b.def.Pattern
	})

	r.ordered = ordered
}
