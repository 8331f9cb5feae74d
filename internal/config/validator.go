package config

import (
	"errors"
	"fmt"

	"github.com/vyrodovalexey/navlink/internal/pattern"
	"github.com/vyrodovalexey/navlink/internal/util"
)

// ValidateConfig checks the configuration for structural errors. Route
// pattern ambiguity is not checked here; it is an advisory lint exposed by
// the registry after the table is loaded.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return util.NewConfigError("", "configuration is nil")
	}

	var errs []error

	seen := make(map[string]string, len(cfg.Routes))
	names := make(map[string]bool, len(cfg.Routes))

	for i, route := range cfg.Routes {
		field := fmt.Sprintf("routes[%d]", i)

		if route.Name == "" {
			errs = append(errs, util.NewConfigError(field+".name", "route name is required"))
		} else if names[route.Name] {
			errs = append(errs, util.NewConfigError(field+".name",
				fmt.Sprintf("duplicate route name %q", route.Name)))
		}
		names[route.Name] = true

		if route.Pattern == "" {
			errs = append(errs, util.NewConfigError(field+".pattern", "route pattern is required"))
			continue
		}

		if !pattern.Valid(route.Pattern) {
			errs = append(errs, util.NewConfigError(field+".pattern",
				fmt.Sprintf("invalid pattern %q", route.Pattern)))
		}

		// Duplicate patterns are legal at the registry level (last write
		// wins) but almost always a mistake in a declarative table.
		if prev, dup := seen[route.Pattern]; dup {
			errs = append(errs, util.NewConfigError(field+".pattern",
				fmt.Sprintf("pattern %q already declared by route %q", route.Pattern, prev)))
		}
		seen[route.Pattern] = route.Name
	}

	if cfg.Cache != nil && cfg.Cache.Enabled {
		switch cfg.Cache.Backend {
		case "", "memory", "disabled":
		case "redis":
			if cfg.Cache.Redis == nil || cfg.Cache.Redis.Addr == "" {
				errs = append(errs, util.NewConfigError("cache.redis.addr",
					"redis backend requires an address"))
			}
		default:
			errs = append(errs, util.NewConfigError("cache.backend",
				fmt.Sprintf("unknown cache backend %q", cfg.Cache.Backend)))
		}
	}

	if cfg.RateLimit != nil && cfg.RateLimit.Enabled {
		if cfg.RateLimit.RequestsPerSecond <= 0 {
			errs = append(errs, util.NewConfigError("rateLimit.requestsPerSecond",
				"must be positive when rate limiting is enabled"))
		}
		if cfg.RateLimit.Burst <= 0 {
			errs = append(errs, util.NewConfigError("rateLimit.burst",
				"must be positive when rate limiting is enabled"))
		}
	}

	if cfg.Navigation != nil && cfg.Navigation.MaxDepth < 0 {
		errs = append(errs, util.NewConfigError("navigation.maxDepth", "must not be negative"))
	}

	return errors.Join(errs...)
}
