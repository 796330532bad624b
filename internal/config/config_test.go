package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "engage.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
upstream:
  base_url: https://pm.example.com
  api_key: secret
log:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0:9090", cfg.Server.Addr())
	assert.Equal(t, "https://pm.example.com", cfg.Upstream.BaseURL)
	assert.Equal(t, "debug", cfg.Log.Level)

	// Unset fields pick up defaults.
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 3, cfg.Upstream.RetryMax)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "engage", cfg.Metrics.Namespace)
}

func TestLoad_EnvOverride(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 8080
upstream:
  base_url: https://pm.example.com
  api_key: from-file
`)
	t.Setenv("ENGAGE_UPSTREAM_API_KEY", "from-env")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Upstream.APIKey)
}

func TestLoad_MissingExplicitFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		c := NewDefaultConfig()
		c.Upstream.BaseURL = "https://pm.example.com"
		c.Upstream.APIKey = "key"
		return c
	}

	assert.NoError(t, base().Validate())

	c := base()
	c.Server.Port = 0
	assert.Error(t, c.Validate())

	c = base()
	c.Upstream.BaseURL = ""
	assert.Error(t, c.Validate())

	c = base()
	c.Upstream.APIKey = ""
	assert.Error(t, c.Validate())

	c = base()
	c.Redis.Enabled = true
	c.Redis.Addr = ""
	assert.Error(t, c.Validate())
}

func TestNewDefaultConfig(t *testing.T) {
	c := NewDefaultConfig()
	assert.Equal(t, 8080, c.Server.Port)
	assert.Equal(t, 30*time.Second, c.Redis.GuardTTL)
	assert.True(t, c.Metrics.Enabled)
}
