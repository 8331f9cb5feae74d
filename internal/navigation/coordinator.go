package navigation

import (
	"context"

	"github.com/vyrodovalexey/navlink/internal/deeplink"
	"github.com/vyrodovalexey/navlink/internal/observability"
	"github.com/vyrodovalexey/navlink/internal/registry"
)

// Coordinator drives the navigation stack from deep links. Every navigation
// passes through the middleware chain before the route factory runs.
type Coordinator struct {
	resolver   *deeplink.Resolver
	stack      *Stack
	middleware []Middleware
	logger     observability.Logger
}

// CoordinatorOption is a functional option for configuring the coordinator.
type CoordinatorOption func(*Coordinator)

// WithMiddleware appends middleware to the chain in invocation order.
func WithMiddleware(mw ...Middleware) CoordinatorOption {
	return func(c *Coordinator) {
		c.middleware = append(c.middleware, mw...)
	}
}

// WithCoordinatorLogger sets the coordinator logger.
func WithCoordinatorLogger(logger observability.Logger) CoordinatorOption {
	return func(c *Coordinator) {
		c.logger = logger
	}
}

// NewCoordinator creates a coordinator over a resolver and a stack.
func NewCoordinator(resolver *deeplink.Resolver, stack *Stack, opts ...CoordinatorOption) *Coordinator {
	c := &Coordinator{
		resolver: resolver,
		stack:    stack,
		logger:   observability.NopLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Use appends middleware after construction.
func (c *Coordinator) Use(mw ...Middleware) {
	c.middleware = append(c.middleware, mw...)
}

// Navigate resolves a deep link and pushes the resulting route.
func (c *Coordinator) Navigate(ctx context.Context, rawURL string) (registry.Route, error) {
	return c.navigate(ctx, rawURL, false)
}

// PresentURL resolves a deep link and presents the resulting route modally.
func (c *Coordinator) PresentURL(ctx context.Context, rawURL string) (registry.Route, error) {
	return c.navigate(ctx, rawURL, true)
}

func (c *Coordinator) navigate(ctx context.Context, rawURL string, present bool) (registry.Route, error) {
	res, err := c.resolver.Resolve(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	nav := &Navigation{
		URL:        rawURL,
		Definition: res.Definition,
		Params:     res.Params,
		Present:    present,
	}

	var route registry.Route
	terminal := func(ctx context.Context, nav *Navigation) error {
		built, err := nav.Definition.Create(nav.Params)
		if err != nil {
			return err
		}

		if nav.Present {
			if err := c.stack.Present(built); err != nil {
				return err
			}
		} else {
			if err := c.stack.Push(built); err != nil {
				return err
			}
		}

		route = built
		return nil
	}

	if err := chain(c.middleware, terminal)(ctx, nav); err != nil {
		return nil, err
	}
	return route, nil
}

// Pop removes the top route from the stack.
func (c *Coordinator) Pop() (registry.Route, bool) {
	return c.stack.Pop()
}

// PopToRoot unwinds the stack to its first entry.
func (c *Coordinator) PopToRoot() {
	c.stack.PopToRoot()
}

// Dismiss unwinds through the topmost modal.
func (c *Coordinator) Dismiss() (registry.Route, bool) {
	return c.stack.Dismiss()
}

// Stack exposes the underlying stack for inspection.
func (c *Coordinator) Stack() *Stack {
	return c.stack
}
