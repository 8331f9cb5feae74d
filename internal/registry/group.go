package registry

import "strings"

// Group batches route definitions under a common path prefix with shared
// defaults (priority, auth requirement, metadata). It is a pure builder:
// nothing is registered until the produced definitions are handed to a
// Registry.
//
// Example:
//
//	admin := registry.NewGroup("/admin",
//		registry.WithGroupPriority(10),
//		registry.WithGroupAuth(true),
//	)
//	admin.Add(registry.Definition{Pattern: "/users/:id", Name: "admin.user"})
//	admin.Add(registry.Definition{Pattern: "/audit/*", Name: "admin.audit"})
//	reg.RegisterAll(admin.Definitions())
type Group struct {
	prefix       string
	priority     int
	requiresAuth bool
	metadata     map[string]string
	defs         []Definition
}

// GroupOption is a functional option for configuring a Group.
type GroupOption func(*Group)

// WithGroupPriority sets the default priority applied to definitions that
// do not set their own. A definition's zero priority means "unset" here:
// an explicit Priority of 0 inside a group still takes the group default.
// Register the definition directly to keep a literal 0.
func WithGroupPriority(priority int) GroupOption {
	return func(g *Group) {
		g.priority = priority
	}
}

// WithGroupAuth marks every definition in the group as requiring auth.
func WithGroupAuth(requiresAuth bool) GroupOption {
	return func(g *Group) {
		g.requiresAuth = requiresAuth
	}
}

// WithGroupMetadata sets metadata defaults merged into every definition.
// Per-definition entries win on key conflicts.
func WithGroupMetadata(metadata map[string]string) GroupOption {
	return func(g *Group) {
		g.metadata = metadata
	}
}

// NewGroup creates a route group with the given path prefix.
func NewGroup(prefix string, opts ...GroupOption) *Group {
	g := &Group{prefix: strings.TrimSuffix(prefix, "/")}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Add appends a definition to the group. Returns the group for chaining.
func (g *Group) Add(def Definition) *Group {
	g.defs = append(g.defs, def)
	return g
}

// Group creates a nested group whose prefix is the parent's prefix plus the
// given one. Defaults are inherited.
func (g *Group) Group(prefix string, opts ...GroupOption) *Group {
	nested := &Group{
		prefix:       g.prefix + "/" + strings.Trim(prefix, "/"),
		priority:     g.priority,
		requiresAuth: g.requiresAuth,
		metadata:     g.metadata,
	}
	for _, opt := range opts {
		opt(nested)
	}
	return nested
}

// Definitions produces the prefixed definitions with group defaults applied.
// Priority 0 is treated as unset and replaced by the group default.
func (g *Group) Definitions() []Definition {
	out := make([]Definition, 0, len(g.defs))
	for _, def := range g.defs {
		def.Pattern = g.prefixed(def.Pattern)
		if def.Priority == 0 {
			def.Priority = g.priority
		}
		if g.requiresAuth {
			def.RequiresAuth = true
		}
		if len(g.metadata) > 0 {
			merged := make(map[string]string, len(g.metadata)+len(def.Metadata))
			for k, v := range g.metadata {
				merged[k] = v
			}
			for k, v := range def.Metadata {
				merged[k] = v
			}
			def.Metadata = merged
		}
		out = append(out, def)
	}
	return out
}

// RegisterTo registers the group's definitions into a registry as one batch.
func (g *Group) RegisterTo(r *Registry) {
	r.RegisterAll(g.Definitions())
}

func (g *Group) prefixed(raw string) string {
	if g.prefix == "" {
		return raw
	}
	// Bare wildcards become a prefixed trailing wildcard.
	if raw == "*" || raw == "/*" {
		return g.prefix + "/*"
	}
	return g.prefix + "/" + strings.TrimPrefix(raw, "/")
}
