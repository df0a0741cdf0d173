package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	assert.Equal(t, 5001, cfg.Gateway.Port)
	assert.Equal(t, "loopback", cfg.Gateway.Bind)
	assert.Equal(t, "sandbox", cfg.AT.Environment)
	assert.Equal(t, "ollama", cfg.LLM.Provider)
	assert.Equal(t, "http://localhost:11434", cfg.LLM.Host)
	assert.Equal(t, "1h", cfg.Voice.SessionTTL)
	assert.Equal(t, 1000, cfg.Voice.MaxSessions)
	assert.NotEmpty(t, cfg.Voice.FallbackMessage)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.yaml")
	require.NoError(t, err)
	assert.Equal(t, 5001, cfg.Gateway.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadValidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	yaml := `
at:
  username: mytelco
  apiKey: atsk_test_1234
  environment: production
llm:
  model: llama3.2
voice:
  callerId: "+254700000001"
  sessionTtl: 30m
  maxSessions: 50
gateway:
  port: 9999
  bind: lan
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "mytelco", cfg.AT.Username)
	assert.Equal(t, "atsk_test_1234", cfg.AT.APIKey)
	assert.Equal(t, "production", cfg.AT.Environment)
	assert.Equal(t, "llama3.2", cfg.LLM.Model)
	assert.Equal(t, "+254700000001", cfg.Voice.CallerID)
	assert.Equal(t, 30*time.Minute, cfg.Voice.SessionTTLDuration())
	assert.Equal(t, 50, cfg.Voice.MaxSessions)
	assert.Equal(t, 9999, cfg.Gateway.Port)
	assert.Equal(t, "lan", cfg.Gateway.Bind)
	assert.Equal(t, "debug", cfg.Logging.Level)

	// Unset sections fall back to defaults.
	assert.Equal(t, "http://localhost:11434", cfg.LLM.Host)
	assert.Equal(t, "mobiledata", cfg.AT.DataProduct)
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("at: [not a map"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config:")
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("SAUTI_TEST_KEY", "resolved-key")

	assert.Equal(t, "resolved-key", expandEnvVars("${SAUTI_TEST_KEY}"))
	assert.Equal(t, "prefix-resolved-key", expandEnvVars("prefix-${SAUTI_TEST_KEY}"))
	assert.Equal(t, "${UNSET_VAR_XYZ}", expandEnvVars("${UNSET_VAR_XYZ}"))
	assert.Equal(t, "plain", expandEnvVars("plain"))
}

func TestLoadExpandsAPIKey(t *testing.T) {
	t.Setenv("SAUTI_TEST_AT_KEY", "atsk_secret")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := "at:\n  username: sandbox\n  apiKey: ${SAUTI_TEST_AT_KEY}\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "atsk_secret", cfg.AT.APIKey)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("AT_USERNAME", "env-user")
	t.Setenv("AT_API_KEY", "env-key")
	t.Setenv("VOICE_CALLBACK_URL", "https://example.ngrok.io")

	cfg, err := Load("/nonexistent/config.yaml")
	require.NoError(t, err)
	assert.Equal(t, "env-user", cfg.AT.Username)
	assert.Equal(t, "env-key", cfg.AT.APIKey)
	assert.Equal(t, "https://example.ngrok.io", cfg.Voice.CallbackURL)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid defaults", func(c *Config) {}, ""},
		{"bad port", func(c *Config) { c.Gateway.Port = 70000 }, "gateway.port"},
		{"bad bind", func(c *Config) { c.Gateway.Bind = "tailnet" }, "gateway.bind"},
		{"bad environment", func(c *Config) { c.AT.Environment = "staging" }, "at.environment"},
		{"bad provider", func(c *Config) { c.LLM.Provider = "openai" }, "llm.provider"},
		{"bad ttl", func(c *Config) { c.Voice.SessionTTL = "soon" }, "voice.sessionTtl"},
		{"negative ttl", func(c *Config) { c.Voice.SessionTTL = "-5m" }, "voice.sessionTtl"},
		{"negative cap", func(c *Config) { c.Voice.MaxSessions = -1 }, "voice.maxSessions"},
		{"bad callback url", func(c *Config) { c.Voice.CallbackURL = "ftp://x" }, "voice.callbackUrl"},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			issues := Validate(&cfg)
			if tt.wantErr == "" {
				assert.Empty(t, issues)
				return
			}
			require.NotEmpty(t, issues)
			assert.Equal(t, tt.wantErr, issues[0].Path)
		})
	}
}

func TestSessionTTLDurationFallback(t *testing.T) {
	assert.Equal(t, time.Hour, VoiceConfig{}.SessionTTLDuration())
	assert.Equal(t, time.Hour, VoiceConfig{SessionTTL: "garbage"}.SessionTTLDuration())
}

func TestResolvePaths(t *testing.T) {
	t.Setenv("SAUTI_HOME", "/tmp/sauti-test")

	p, err := ResolvePaths()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/sauti-test", p.Base)
	assert.Equal(t, "/tmp/sauti-test/config.yaml", p.Config)
	assert.Equal(t, "/tmp/sauti-test/data/sauti.db", p.DBPath(StoreConfig{}))
	assert.Equal(t, ":memory:", p.DBPath(StoreConfig{Path: ":memory:"}))
}
