package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vyrodovalexey/navlink/internal/util"
)

func validConfig() *Config {
	cfg := DefaultConfig()
	cfg.Routes = []RouteConfig{
		{Name: "home", Pattern: "/home"},
		{Name: "user", Pattern: "/users/:id"},
	}
	return cfg
}

func TestValidateConfigOK(t *testing.T) {
	t.Parallel()
	assert.NoError(t, ValidateConfig(validConfig()))
}

func TestValidateConfigNil(t *testing.T) {
	t.Parallel()
	err := ValidateConfig(nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, util.ErrConfigInvalid)
}

func TestValidateConfigRoutes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
		substr string
	}{
		{
			name: "missing route name",
			mutate: func(c *Config) {
				c.Routes[0].Name = ""
			},
			substr: "route name is required",
		},
		{
			name: "duplicate route name",
			mutate: func(c *Config) {
				c.Routes[1].Name = "home"
			},
			substr: "duplicate route name",
		},
		{
			name: "missing pattern",
			mutate: func(c *Config) {
				c.Routes[0].Pattern = ""
			},
			substr: "route pattern is required",
		},
		{
			name: "invalid pattern",
			mutate: func(c *Config) {
				c.Routes[0].Pattern = "home"
			},
			substr: "invalid pattern",
		},
		{
			name: "duplicate pattern",
			mutate: func(c *Config) {
				c.Routes[1].Pattern = "/home"
			},
			substr: "already declared",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tt.mutate(cfg)

			err := ValidateConfig(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.substr)
		})
	}
}

func TestValidateConfigCache(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Cache = &CacheConfig{Enabled: true, Backend: "redis"}
	err := ValidateConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis backend requires an address")

	cfg.Cache.Redis = &RedisConfig{Addr: "localhost:6379"}
	assert.NoError(t, ValidateConfig(cfg))

	cfg.Cache.Backend = "bogus"
	err = ValidateConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown cache backend")
}

func TestValidateConfigRateLimit(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.RateLimit = &RateLimitConfig{Enabled: true, RequestsPerSecond: 0, Burst: 0}
	err := ValidateConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requestsPerSecond")
	assert.Contains(t, err.Error(), "burst")

	// Disabled rate limiting is not validated.
	cfg.RateLimit.Enabled = false
	assert.NoError(t, ValidateConfig(cfg))
}

func TestValidateConfigNavigation(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Navigation = &NavigationConfig{MaxDepth: -1}
	err := ValidateConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "maxDepth")
}
