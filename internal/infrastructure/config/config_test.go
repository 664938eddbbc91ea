package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.Equal(t, "none", cfg.Cache.Driver)
	assert.Equal(t, 5*time.Second, cfg.Store.Timeout)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Error(t, cfg.Validate(), "a token secret is required")
}

func TestLoadConfigFromFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: "9090"
store:
  driver: redis
  prefix: shop
  timeout: 2s
cache:
  driver: memory
  ttl: 30s
auth:
  tokenSecret: from-file
`), 0o600))

	t.Setenv("SERVER_HOST", "127.0.0.1")
	t.Setenv("AUTH_TOKEN_SECRET", "from-env")
	t.Setenv("STORE_REDIS_DB", "3")
	t.Setenv("OTEL_ENABLED", "true")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "redis", cfg.Store.Driver)
	assert.Equal(t, "shop", cfg.Store.Prefix)
	assert.Equal(t, 2*time.Second, cfg.Store.Timeout)
	assert.Equal(t, 3, cfg.Store.DB)
	assert.Equal(t, "memory", cfg.Cache.Driver)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL)
	assert.Equal(t, "from-env", cfg.Auth.TokenSecret)
	assert.True(t, cfg.OTLP.Enabled)
}

func TestLoadConfigIgnoresMalformedEnv(t *testing.T) {
	t.Setenv("AUTH_TOKEN_SECRET", "s")
	t.Setenv("STORE_TIMEOUT", "soon")
	t.Setenv("STORE_MAX_CONNS", "many")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.Store.Timeout)
	assert.Equal(t, int32(10), cfg.Store.MaxConns)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("server: ["), 0o600))
	_, err = LoadConfig(bad)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults with secret", mutate: func(*Config) {}},
		{name: "postgres without dsn", mutate: func(c *Config) { c.Store.Driver = "postgres" }, wantErr: true},
		{name: "postgres with dsn", mutate: func(c *Config) {
			c.Store.Driver = "postgres"
			c.Store.DSN = "postgres://localhost/stock"
		}},
		{name: "unknown store", mutate: func(c *Config) { c.Store.Driver = "mongo" }, wantErr: true},
		{name: "unknown cache", mutate: func(c *Config) { c.Cache.Driver = "memcached" }, wantErr: true},
		{name: "missing secret", mutate: func(c *Config) { c.Auth.TokenSecret = "" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Auth.TokenSecret = "secret"
			tt.mutate(cfg)
			if tt.wantErr {
				assert.Error(t, cfg.Validate())
			} else {
				assert.NoError(t, cfg.Validate())
			}
		})
	}
}
