package config

import "time"

// ApplyDefaults fills zero-valued fields with the service defaults.  It runs
// after unmarshalling so that partial config files remain valid.
func (c *Config) ApplyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 30 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}

	if c.Upstream.Timeout == 0 {
		c.Upstream.Timeout = 30 * time.Second
	}
	if c.Upstream.RetryMax == 0 {
		c.Upstream.RetryMax = 3
	}
	if c.Upstream.RetryWaitMin == 0 {
		c.Upstream.RetryWaitMin = 500 * time.Millisecond
	}
	if c.Upstream.RetryWaitMax == 0 {
		c.Upstream.RetryWaitMax = 5 * time.Second
	}

	if c.Redis.GuardTTL == 0 {
		c.Redis.GuardTTL = 30 * time.Second
	}
	if c.Redis.DialTimeout == 0 {
		c.Redis.DialTimeout = 5 * time.Second
	}
	if c.Redis.ReadTimeout == 0 {
		c.Redis.ReadTimeout = 3 * time.Second
	}
	if c.Redis.WriteTimeout == 0 {
		c.Redis.WriteTimeout = 3 * time.Second
	}
	if c.Redis.PoolSize == 0 {
		c.Redis.PoolSize = 10
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
	if len(c.Log.OutputPaths) == 0 {
		c.Log.OutputPaths = []string{"stdout"}
	}
	if len(c.Log.ErrorOutputPaths) == 0 {
		c.Log.ErrorOutputPaths = []string{"stderr"}
	}

	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = "engage"
	}
}

// NewDefaultConfig returns a Config populated entirely with defaults, useful
// in tests and for the CLI where no config file is present.
func NewDefaultConfig() *Config {
	c := &Config{}
	c.ApplyDefaults()
	c.Metrics.Enabled = true
	return c
}
