package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("FXF_UPSTREAM_TOKEN", "test-token")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "test-token", cfg.Upstream.Token)
	require.Equal(t, 3000, cfg.Server.Port)
	require.Equal(t, "localhost:6379", cfg.Redis.Addr())
	require.Equal(t, "metadata-extraction", cfg.Queue.Name)
	require.Equal(t, StrategyAPI, cfg.Resolver.Strategy)
	require.Equal(t, "https://solar.furtrack.com", cfg.Upstream.BaseURL)
	require.Equal(t, 24*time.Hour, cfg.CacheTTL())
	require.Equal(t, 15*time.Second, cfg.AwaitTimeout())
}

func TestLoad_EnvOnlySecrets(t *testing.T) {
	t.Setenv("FXF_UPSTREAM_TOKEN", "test-token")
	t.Setenv("FXF_REDIS_PASSWORD", "hunter2")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "test-token", cfg.Upstream.Token)
	require.Equal(t, "hunter2", cfg.Redis.Password)
}

func TestLoad_MissingTokenFatalForAPIStrategy(t *testing.T) {
	t.Setenv("FXF_UPSTREAM_TOKEN", "")

	_, err := Load("")
	require.Error(t, err)
	require.Contains(t, err.Error(), "upstream.token")
}

func TestLoad_BrowserStrategyNeedsNoToken(t *testing.T) {
	t.Setenv("FXF_UPSTREAM_TOKEN", "")
	t.Setenv("FXF_RESOLVER_STRATEGY", "browser")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, StrategyBrowser, cfg.Resolver.Strategy)
}

func TestValidate_Failures(t *testing.T) {
	t.Parallel()

	base := func() Config {
		return Config{
			Server:   ServerConfig{Port: 3000},
			Queue:    QueueConfig{Name: "metadata-extraction", AwaitTimeoutSeconds: 15},
			Upstream: UpstreamConfig{Token: "t", TimeoutSeconds: 15},
			Resolver: ResolverConfig{Strategy: StrategyAPI},
			Browser:  BrowserConfig{NavTimeoutSeconds: 15},
			Cache:    CacheConfig{TTLHours: 24},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "server.port"},
		{"empty queue name", func(c *Config) { c.Queue.Name = "" }, "queue.name"},
		{"bad await", func(c *Config) { c.Queue.AwaitTimeoutSeconds = 0 }, "await_timeout"},
		{"bad ttl", func(c *Config) { c.Cache.TTLHours = 0 }, "ttl_hours"},
		{"unknown strategy", func(c *Config) { c.Resolver.Strategy = "psychic" }, "resolver.strategy"},
		{"browser nav timeout", func(c *Config) {
			c.Resolver.Strategy = StrategyBrowser
			c.Browser.NavTimeoutSeconds = 0
		}, "nav_timeout"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg := base()
			tc.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.want)
		})
	}
}
