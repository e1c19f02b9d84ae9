// Package config loads and validates service configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Resolution strategies. The api strategy resolves from the structured
// upstream API; the browser strategy renders pages in headless Chrome
// and scrapes their tags.
const (
	StrategyAPI     = "api"
	StrategyBrowser = "browser"
)

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Queue    QueueConfig    `mapstructure:"queue"`
	Upstream UpstreamConfig `mapstructure:"upstream"`
	Resolver ResolverConfig `mapstructure:"resolver"`
	Browser  BrowserConfig  `mapstructure:"browser"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ServerConfig controls the dispatcher HTTP server and the metrics port.
type ServerConfig struct {
	Port        int `mapstructure:"port"`
	MetricsPort int `mapstructure:"metrics_port"`
}

// RedisConfig locates the shared store backing the cache and the queue.
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	DB       int    `mapstructure:"db"`
	Password string `mapstructure:"password"`
}

// Addr returns the host:port address for the Redis client.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// QueueConfig names the job queue and bounds the dispatcher's wait.
type QueueConfig struct {
	Name                string `mapstructure:"name"`
	AwaitTimeoutSeconds int    `mapstructure:"await_timeout_seconds"`
}

// UpstreamConfig configures the authenticated data API client.
type UpstreamConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	Token          string `mapstructure:"token"`
	UserAgent      string `mapstructure:"user_agent"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// ResolverConfig selects the resolution strategy.
type ResolverConfig struct {
	Strategy string `mapstructure:"strategy"`
}

// BrowserConfig configures the headless fallback.
type BrowserConfig struct {
	NavTimeoutSeconds   int `mapstructure:"nav_timeout_seconds"`
	ReadyTimeoutSeconds int `mapstructure:"ready_timeout_seconds"`
}

// CacheConfig bounds the result cache lifetime.
type CacheConfig struct {
	TTLHours int `mapstructure:"ttl_hours"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("FXF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.metrics_port", 9090)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)
	// Empty defaults register the keys so AutomaticEnv can fill them.
	v.SetDefault("redis.password", "")
	v.SetDefault("queue.name", "metadata-extraction")
	v.SetDefault("queue.await_timeout_seconds", 15)
	v.SetDefault("upstream.base_url", "https://solar.furtrack.com")
	v.SetDefault("upstream.token", "")
	v.SetDefault("upstream.user_agent", "Mozilla/5.0 (X11; Linux x86_64; rv:135.0) Gecko/20100101 Firefox/135.0")
	v.SetDefault("upstream.timeout_seconds", 15)
	v.SetDefault("resolver.strategy", StrategyAPI)
	v.SetDefault("browser.nav_timeout_seconds", 15)
	v.SetDefault("browser.ready_timeout_seconds", 5)
	v.SetDefault("cache.ttl_hours", 24)
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits. A missing
// upstream token under the api strategy is startup-fatal.
func (c Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	if c.Queue.Name == "" {
		return fmt.Errorf("queue.name must be set")
	}
	if c.Queue.AwaitTimeoutSeconds <= 0 {
		return fmt.Errorf("queue.await_timeout_seconds must be > 0")
	}
	if c.Cache.TTLHours <= 0 {
		return fmt.Errorf("cache.ttl_hours must be > 0")
	}
	switch c.Resolver.Strategy {
	case StrategyAPI:
		if c.Upstream.Token == "" {
			return fmt.Errorf("upstream.token must be set when resolver.strategy is %q", StrategyAPI)
		}
		if c.Upstream.TimeoutSeconds <= 0 {
			return fmt.Errorf("upstream.timeout_seconds must be > 0")
		}
	case StrategyBrowser:
		if c.Browser.NavTimeoutSeconds <= 0 {
			return fmt.Errorf("browser.nav_timeout_seconds must be > 0")
		}
	default:
		return fmt.Errorf("resolver.strategy must be %q or %q", StrategyAPI, StrategyBrowser)
	}
	return nil
}

// AwaitTimeout returns the dispatcher's completion wait bound.
func (c Config) AwaitTimeout() time.Duration {
	return time.Duration(c.Queue.AwaitTimeoutSeconds) * time.Second
}

// CacheTTL returns the result cache lifetime.
func (c Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLHours) * time.Hour
}
