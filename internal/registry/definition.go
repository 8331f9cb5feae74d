// Package registry owns the set of registered route definitions and resolves
// concrete paths to the best-matching definition.
//
// Definitions are keyed by their raw pattern string; registering the same
// pattern again replaces the earlier definition. Resolution walks a canonical
// order that is recomputed on every mutation: priority descending, then
// pattern specificity descending, then raw pattern ascending.
package registry

import (
	"github.com/vyrodovalexey/navlink/internal/pattern"
	"github.com/vyrodovalexey/navlink/internal/util"
)

// Route is an application-defined route instance produced by a Factory.
// The registry treats it as opaque.
type Route interface {
	// RouteName identifies the route type for diagnostics.
	RouteName() string

	// RouteParams returns the parameters the instance was built from.
	RouteParams() pattern.Params
}

// Factory constructs a route instance from extracted parameters. A factory
// may fail when required parameters are absent or malformed; that failure is
// distinct from a resolution miss.
type Factory func(pattern.Params) (Route, error)

// Definition describes one registered route.
type Definition struct {
	// Pattern is the raw pattern string and the definition's identity key.
	Pattern string

	// Name is a human-readable route name for diagnostics and lookups.
	Name string

	// Priority orders resolution; higher priorities are matched first.
	Priority int

	// RequiresAuth marks routes gated by the host's auth middleware.
	RequiresAuth bool

	// Metadata carries arbitrary route annotations.
	Metadata map[string]string

	// Factory builds the route instance after a successful match. Optional;
	// when nil, Create produces a BasicRoute.
	Factory Factory
}

// Create invokes the definition's factory with the extracted parameters.
// Factory failures are wrapped in FactoryError so callers can branch on
// them separately from resolution misses.
func (d Definition) Create(params pattern.Params) (Route, error) {
	if d.Factory == nil {
		return BasicRoute{Name: d.Name, Params: params}, nil
	}

	route, err := d.Factory(params)
	if err != nil {
		return nil, util.NewFactoryError(d.Pattern, err)
	}
	return route, nil
}

// BasicRoute is the default route instance for definitions without a
// custom factory.
type BasicRoute struct {
	Name   string
	Params pattern.Params
}

// RouteName implements Route.
func (r BasicRoute) RouteName() string {
	return r.Name
}

// RouteParams implements Route.
func (r BasicRoute) RouteParams() pattern.Params {
	return r.Params
}

// compiled pairs a definition with its parsed pattern. Definitions whose
// pattern fails to parse stay registered (Validate reports them) but are
// skipped during resolution.
type compiled struct {
	def         Definition
	parsed      pattern.Pattern
	valid       bool
	specificity int
}

func compile(def Definition) *compiled {
	parsed, err := pattern.Parse(def.Pattern)
	if err != nil {
		return &compiled{def: def}
	}
	return &compiled{
		def:         def,
		parsed:      parsed,
		valid:       true,
		specificity: parsed.Specificity(),
	}
}
