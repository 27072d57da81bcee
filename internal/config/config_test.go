package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile_DefaultsWithoutFile(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, StorageSQLite, cfg.Storage.Driver)
	assert.Equal(t, SessionMemory, cfg.Session.Backend)
	assert.Equal(t, "mika_session", cfg.Session.CookieName)
	assert.Equal(t, 24*time.Hour, cfg.Session.TTL)
	assert.Equal(t, AuthLocal, cfg.Auth.Provider)
	assert.Equal(t, "test-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, "ollama", cfg.LLM.DefaultProvider)
	assert.Equal(t, "gpt-oss:20b", cfg.LLM.Ollama.DefaultModel)
	assert.Equal(t, 120*time.Second, cfg.LLM.RequestTimeout)
	assert.False(t, cfg.IsProduction())
}

func TestLoadFile_YAMLAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
env: production
server:
  port: 9090
storage:
  driver: mongo
  mongo:
    database: travel
redis:
  enabled: true
session:
  backend: redis
  ttl: 2h
auth:
  provider: firebase
llm:
  default_provider: gemini
  gemini:
    model: gemini-2.5-pro
`), 0o600))

	t.Setenv("FIREBASE_API_KEY", "fb-key")
	t.Setenv("SESSION_ENCRYPTION_KEY", "passphrase")
	t.Setenv("GEMINI_API_KEY", "gm-key")

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, StorageMongo, cfg.Storage.Driver)
	assert.Equal(t, "travel", cfg.Storage.Mongo.Database)
	assert.Equal(t, SessionRedis, cfg.Session.Backend)
	assert.Equal(t, 2*time.Hour, cfg.Session.TTL)
	assert.Equal(t, "passphrase", cfg.Session.EncryptionKey)
	assert.Equal(t, "fb-key", cfg.Auth.Firebase.APIKey)
	assert.Equal(t, "gm-key", cfg.LLM.Gemini.APIKey)
	assert.Equal(t, "gemini-2.5-pro", cfg.LLM.Gemini.Model)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Storage: StorageConfig{Driver: StorageSQLite},
			Session: SessionConfig{Backend: SessionMemory, TTL: time.Hour},
			Auth:    AuthConfig{Provider: AuthLocal, JWTSecret: "s"},
		}
	}
	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"storage", func(c *Config) { c.Storage.Driver = "oracle" }, "unknown storage driver"},
		{"session backend", func(c *Config) { c.Session.Backend = "file" }, "unknown session backend"},
		{"redis disabled", func(c *Config) { c.Session.Backend = SessionRedis }, "requires redis.enabled"},
		{"redis key", func(c *Config) {
			c.Session.Backend = SessionRedis
			c.Redis.Enabled = true
		}, "encryption_key"},
		{"jwt secret", func(c *Config) { c.Auth.JWTSecret = "" }, "jwt_secret"},
		{"firebase key", func(c *Config) { c.Auth.Provider = AuthFirebase }, "firebase.api_key"},
		{"auth provider", func(c *Config) { c.Auth.Provider = "ldap" }, "unknown auth provider"},
		{"ttl", func(c *Config) { c.Session.TTL = 0 }, "session.ttl"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.want)
		})
	}
}
