package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	config := NewDefaultConfig()

	assert.Equal(t, "development", config.Environment)
	assert.Equal(t, 8080, config.Server.Port)
	assert.Equal(t, 4, config.Engine.FetchConcurrency)
	assert.Equal(t, 3, config.Engine.RetryAttempts)
	assert.Equal(t, "https://eodhd.com/api", config.Clients.EODHD.BaseURL)
	assert.Empty(t, config.Aliases.Path)
}

func TestEngineConfigDurations(t *testing.T) {
	engine := EngineConfig{
		RetryBaseDelay:   "100ms",
		RetryMaxDelay:    "2s",
		AttemptTimeout:   "5s",
		AnalysisDeadline: "30s",
	}

	assert.Equal(t, 100*time.Millisecond, engine.GetRetryBaseDelay())
	assert.Equal(t, 2*time.Second, engine.GetRetryMaxDelay())
	assert.Equal(t, 5*time.Second, engine.GetAttemptTimeout())
	assert.Equal(t, 30*time.Second, engine.GetAnalysisDeadline())
}

func TestEngineConfigDurationFallbacks(t *testing.T) {
	engine := EngineConfig{
		RetryBaseDelay:   "not a duration",
		AnalysisDeadline: "",
	}

	assert.Equal(t, 250*time.Millisecond, engine.GetRetryBaseDelay())
	assert.Equal(t, 4*time.Second, engine.GetRetryMaxDelay())
	assert.Equal(t, 10*time.Second, engine.GetAttemptTimeout())
	assert.Equal(t, 60*time.Second, engine.GetAnalysisDeadline())
}

func TestLoadConfigMergesFiles(t *testing.T) {
	dir := t.TempDir()

	base := filepath.Join(dir, "base.toml")
	require.NoError(t, os.WriteFile(base, []byte(`
environment = "staging"

[server]
port = 9090

[engine]
fetch_concurrency = 8
`), 0644))

	override := filepath.Join(dir, "override.toml")
	require.NoError(t, os.WriteFile(override, []byte(`
[server]
port = 9999
`), 0644))

	config, err := LoadConfig(base, override)
	require.NoError(t, err)

	assert.Equal(t, "staging", config.Environment)
	assert.Equal(t, 9999, config.Server.Port, "later file wins")
	assert.Equal(t, 8, config.Engine.FetchConcurrency)
	assert.Equal(t, 3, config.Engine.RetryAttempts, "defaults survive")
}

func TestLoadConfigSkipsMissingFiles(t *testing.T) {
	config, err := LoadConfig("/no/such/file.toml")
	require.NoError(t, err)
	assert.Equal(t, 8080, config.Server.Port)
}

func TestLoadConfigInvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("not [valid toml"), 0644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("FINSIGHT_ENV", "production")
	t.Setenv("FINSIGHT_PORT", "7070")
	t.Setenv("FINSIGHT_LOG_LEVEL", "debug")
	t.Setenv("EODHD_API_KEY", "env-key")

	config, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "production", config.Environment)
	assert.Equal(t, 7070, config.Server.Port)
	assert.Equal(t, "debug", config.Logging.Level)
	assert.Equal(t, "env-key", config.Clients.EODHD.APIKey)
	assert.True(t, config.IsProduction())
}

func TestPrefixedKeyOverridesUnprefixed(t *testing.T) {
	t.Setenv("EODHD_API_KEY", "plain")
	t.Setenv("FINSIGHT_EODHD_API_KEY", "prefixed")

	config, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "prefixed", config.Clients.EODHD.APIKey)
}

func TestIsProduction(t *testing.T) {
	tests := []struct {
		env  string
		want bool
	}{
		{"production", true},
		{"prod", true},
		{" Production ", true},
		{"development", false},
		{"test", false},
		{"", false},
	}

	for _, tt := range tests {
		config := &Config{Environment: tt.env}
		assert.Equal(t, tt.want, config.IsProduction(), "env %q", tt.env)
	}
}
