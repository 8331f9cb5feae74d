package navigation

import (
	"context"
	"time"

	"github.com/vyrodovalexey/navlink/internal/observability"
	"github.com/vyrodovalexey/navlink/internal/pattern"
	"github.com/vyrodovalexey/navlink/internal/registry"
	"github.com/vyrodovalexey/navlink/internal/util"
)

// Navigation carries one navigation through the middleware chain. Middleware
// may rewrite Params or Metadata before the route is constructed.
type Navigation struct {
	// URL is the raw deep link that started the navigation, when one did.
	URL string

	// Definition is the resolved route definition.
	Definition registry.Definition

	// Params are the extracted parameters. Middleware may add entries.
	Params pattern.Params

	// Present marks the navigation as a modal presentation.
	Present bool
}

// Handler is the terminal stage of the middleware chain.
type Handler func(ctx context.Context, nav *Navigation) error

// Middleware wraps a navigation stage. Returning an error without calling
// next aborts the navigation.
type Middleware func(ctx context.Context, nav *Navigation, next Handler) error

// chain composes middleware around a terminal handler, first middleware
// outermost.
func chain(middleware []Middleware, terminal Handler) Handler {
	handler := terminal
	for i := len(middleware) - 1; i >= 0; i-- {
		mw := middleware[i]
		next := handler
		handler = func(ctx context.Context, nav *Navigation) error {
			return mw(ctx, nav, next)
		}
	}
	return handler
}

// AuthCheck reports whether the current context is authenticated.
type AuthCheck func(ctx context.Context) bool

// AuthMiddleware blocks navigations to routes marked RequiresAuth when the
// check fails.
func AuthMiddleware(check AuthCheck) Middleware {
	return func(ctx context.Context, nav *Navigation, next Handler) error {
		if nav.Definition.RequiresAuth && !check(ctx) {
			return util.ErrAuthRequired
		}
		return next(ctx, nav)
	}
}

// LoggingMiddleware logs every navigation with its outcome and duration.
func LoggingMiddleware(logger observability.Logger) Middleware {
	return func(ctx context.Context, nav *Navigation, next Handler) error {
		start := time.Now()
		err := next(ctx, nav)

		fields := []observability.Field{
			observability.String("route", nav.Definition.Name),
			observability.String("pattern", nav.Definition.Pattern),
			observability.Duration("duration", time.Since(start)),
		}
		if err != nil {
			logger.WithContext(ctx).Warn("navigation failed", append(fields, observability.Error(err))...)
			return err
		}

		logger.WithContext(ctx).Info("navigation completed", fields...)
		return nil
	}
}
