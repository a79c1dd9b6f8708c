package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"FAIRPAY_PORT", "FAIRPAY_DB", "API_KEY", "GEMINI_API_KEY", "FAIRPAY_LOG_LEVEL", "FAIRPAY_INGEST_STRICT"} {
		t.Setenv(k, "")
	}
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, DefaultConfig(), cfg)
	assert.False(t, cfg.HasAssistant())
	require.NoError(t, cfg.Validate())
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "fairpay.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9090
ingest:
  strict: true
  job_timeout: 30s
log:
  level: debug
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.True(t, cfg.Ingest.Strict)
	assert.Equal(t, 30*time.Second, cfg.GetJobTimeout())
	assert.Equal(t, "debug", cfg.Log.Level)
	// Untouched sections keep defaults.
	assert.Equal(t, "gemini-2.5-flash", cfg.Gemini.Model)
	assert.Equal(t, 2, cfg.Ingest.Workers)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "fairpay.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 9090\n"), 0644))

	t.Setenv("FAIRPAY_PORT", "7070")
	t.Setenv("FAIRPAY_DB", ":memory:")
	t.Setenv("API_KEY", "legacy")
	t.Setenv("GEMINI_API_KEY", "preferred")
	t.Setenv("FAIRPAY_INGEST_STRICT", "true")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, ":memory:", cfg.Database.Path)
	assert.Equal(t, "preferred", cfg.Gemini.APIKey)
	assert.True(t, cfg.Ingest.Strict)
	assert.True(t, cfg.HasAssistant())
}

func TestLoad_MalformedYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "fairpay.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unclosed"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSave_RoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "fairpay.yaml")

	cfg := DefaultConfig()
	cfg.Ingest.Strict = true
	cfg.Server.Port = 8181
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port", func(c *Config) { c.Server.Port = 0 }},
		{"database", func(c *Config) { c.Database.Path = "" }},
		{"duration", func(c *Config) { c.Ingest.JobTimeout = "soon" }},
		{"log level", func(c *Config) { c.Log.Level = "loud" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestDurationFallbacks(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.ShutdownTimeout = ""
	cfg.Ingest.JobTimeout = "-1s"
	assert.Equal(t, 10*time.Second, cfg.GetShutdownTimeout())
	assert.Equal(t, 2*time.Minute, cfg.GetJobTimeout())
}
