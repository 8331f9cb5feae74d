package registry

import "github.com/vyrodovalexey/navlink/internal/config"

// DefinitionsFromConfig converts declarative route entries into registry
// definitions. Factories are left nil so Create yields BasicRoute instances;
// code-level registration can attach custom factories afterwards by
// re-registering the same pattern.
func DefinitionsFromConfig(routes []config.RouteConfig) []Definition {
	defs := make([]Definition, 0, len(routes))
	for _, rc := range routes {
		defs = append(defs, Definition{
			Pattern:      rc.Pattern,
			Name:         rc.Name,
			Priority:     rc.Priority,
			RequiresAuth: rc.RequiresAuth,
			Metadata:     rc.Metadata,
		})
	}
	return defs
}

// LoadFromConfig replaces the registry contents with the configured route
// table in one atomic swap.
func (r *Registry) LoadFromConfig(routes []config.RouteConfig) {
	defs := DefinitionsFromConfig(routes)

	r.mu.Lock()
	defer r.mu.Unlock()

	r.byPattern = make(map[string]*compiled, len(defs))
	for _, def := range defs {
		r.byPattern[def.Pattern] = compile(def)
	}
	r.rebuild()
}
