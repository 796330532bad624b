// Package config defines the service configuration model and its loader.
package config

import (
	"fmt"
	"time"

	"github.com/meridiancs/engage/internal/infrastructure/monitoring/logging"
	"github.com/meridiancs/engage/internal/infrastructure/redis"
)

// Config is the root configuration for the service.
type Config struct {
	Server   ServerConfig      `mapstructure:"server" yaml:"server"`
	Upstream UpstreamConfig    `mapstructure:"upstream" yaml:"upstream"`
	Redis    RedisConfig       `mapstructure:"redis" yaml:"redis"`
	Log      logging.LogConfig `mapstructure:"log" yaml:"log"`
	Metrics  MetricsConfig     `mapstructure:"metrics" yaml:"metrics"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Host            string        `mapstructure:"host" yaml:"host"`
	Port            int           `mapstructure:"port" yaml:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	APIToken        string        `mapstructure:"api_token" yaml:"api_token"`
}

// Addr returns the host:port the server binds to.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// UpstreamConfig holds the practice-management API connection settings.
type UpstreamConfig struct {
	BaseURL      string        `mapstructure:"base_url" yaml:"base_url"`
	APIKey       string        `mapstructure:"api_key" yaml:"api_key"`
	Timeout      time.Duration `mapstructure:"timeout" yaml:"timeout"`
	RetryMax     int           `mapstructure:"retry_max" yaml:"retry_max"`
	RetryWaitMin time.Duration `mapstructure:"retry_wait_min" yaml:"retry_wait_min"`
	RetryWaitMax time.Duration `mapstructure:"retry_wait_max" yaml:"retry_wait_max"`
}

// RedisConfig wires the redis client settings plus the enable switch.  When
// disabled the service falls back to the in-process transition guard.
type RedisConfig struct {
	Enabled  bool          `mapstructure:"enabled" yaml:"enabled"`
	GuardTTL time.Duration `mapstructure:"guard_ttl" yaml:"guard_ttl"`

	redis.Config `mapstructure:",squash" yaml:",inline"`
}

// MetricsConfig holds the Prometheus exposure settings.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled" yaml:"enabled"`
	Namespace string `mapstructure:"namespace" yaml:"namespace"`
}

// Validate checks the configuration for values the service cannot start with.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in (0, 65535], got %d", c.Server.Port)
	}
	if c.Upstream.BaseURL == "" {
		return fmt.Errorf("upstream.base_url is required")
	}
	if c.Upstream.APIKey == "" {
		return fmt.Errorf("upstream.api_key is required")
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("redis.addr is required when redis is enabled")
	}
	return nil
}
