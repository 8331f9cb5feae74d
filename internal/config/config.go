// Package config defines the declarative route table and resolver settings
// for navlink, loaded from YAML with environment variable substitution and
// optional hot reload.
package config

import "time"

// Config is the top-level navlink configuration.
type Config struct {
	Resolver      ResolverConfig       `yaml:"resolver"`
	Cache         *CacheConfig         `yaml:"cache,omitempty"`
	RateLimit     *RateLimitConfig     `yaml:"rateLimit,omitempty"`
	Observability *ObservabilityConfig `yaml:"observability,omitempty"`
	Navigation    *NavigationConfig    `yaml:"navigation,omitempty"`
	Routes        []RouteConfig        `yaml:"routes"`
}

// ResolverConfig holds deep-link resolver settings.
type ResolverConfig struct {
	// Listen is the HTTP listen address of the resolver daemon.
	Listen string `yaml:"listen,omitempty"`

	// Schemes lists the URL schemes accepted for deep links, e.g. "app",
	// "https". Empty means any scheme.
	Schemes []string `yaml:"schemes,omitempty"`

	// Hosts lists the hosts accepted for universal links. Empty means any
	// host.
	Hosts []string `yaml:"hosts,omitempty"`
}

// RouteConfig declares one route in the table.
type RouteConfig struct {
	Name         string            `yaml:"name"`
	Pattern      string            `yaml:"pattern"`
	Priority     int               `yaml:"priority,omitempty"`
	RequiresAuth bool              `yaml:"requiresAuth,omitempty"`
	Metadata     map[string]string `yaml:"metadata,omitempty"`
}

// CacheConfig holds resolution cache settings.
type CacheConfig struct {
	Enabled    bool         `yaml:"enabled"`
	Backend    string       `yaml:"backend,omitempty"` // memory or redis
	TTL        Duration     `yaml:"ttl,omitempty"`
	MaxEntries int          `yaml:"maxEntries,omitempty"`
	Redis      *RedisConfig `yaml:"redis,omitempty"`
}

// RedisConfig holds redis backend settings for the resolution cache.
type RedisConfig struct {
	Addr      string `yaml:"addr"`
	Password  string `yaml:"password,omitempty"`
	DB        int    `yaml:"db,omitempty"`
	KeyPrefix string `yaml:"keyPrefix,omitempty"`
}

// RateLimitConfig holds resolver rate limiting settings.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerSecond int  `yaml:"requestsPerSecond"`
	Burst             int  `yaml:"burst"`
}

// ObservabilityConfig holds logging settings.
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig configures the structured logger.
type LoggingConfig struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
	Output string `yaml:"output,omitempty"`
}

// NavigationConfig holds navigation coordinator settings.
type NavigationConfig struct {
	// MaxDepth bounds the navigation stack. Zero means the default.
	MaxDepth int `yaml:"maxDepth,omitempty"`
}

// DefaultConfig returns a configuration with sane defaults and no routes.
func DefaultConfig() *Config {
	return &Config{
		Resolver: ResolverConfig{
			Listen: ":8470",
		},
		Cache: &CacheConfig{
			Enabled:    true,
			Backend:    "memory",
			TTL:        Duration(5 * time.Minute),
			MaxEntries: 10000,
		},
		Observability: &ObservabilityConfig{
			Logging: LoggingConfig{
				Level:  "info",
				Format: "json",
				Output: "stdout",
			},
		},
	}
}
