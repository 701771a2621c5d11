package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/whichllm/pkg/constants"
)

// TestLoadConfig verifies defaults.
func TestLoadConfig(t *testing.T) {
	config, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, constants.ArtificialAnalysisBaseURL, config.BaseURL)
	assert.Equal(t, constants.ModelsDevAPIURL, config.ModelsDevURL)
	assert.Equal(t, constants.SecondaryValidity, config.SecondaryValidity)
	assert.Equal(t, constants.DefaultRefreshSchedule, config.RefreshSchedule)
	assert.NotEmpty(t, config.LogFormat)
}

// TestConfig_EnvironmentVariables verifies environment variable loading.
func TestConfig_EnvironmentVariables(t *testing.T) {
	t.Setenv(APIKeyEnv, "env-key")
	t.Setenv("WHICHLLM_SECONDARY_VALIDITY", "48h")
	t.Setenv("WHICHLLM_METRICS_ADDR", ":9100")
	t.Setenv(constants.CacheDirEnv, "/tmp/which-llm-test")

	config, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "env-key", config.APIKey)
	assert.Equal(t, 48*time.Hour, config.SecondaryValidity)
	assert.Equal(t, ":9100", config.MetricsAddr)
	assert.Equal(t, "/tmp/which-llm-test", config.CacheDir)
}

func TestConfig_InvalidDurationsFallBack(t *testing.T) {
	t.Setenv("WHICHLLM_SECONDARY_VALIDITY", "-1h")

	config, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, constants.SecondaryValidity, config.SecondaryValidity)
}

func TestConfig_MergeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "whichllm.yaml")
	content := `cache_dir: /var/cache/whichllm
models_dev_url: http://mirror.local/api.json
refresh_schedule: "@every 30m"
aliases:
  mistralai: mistral
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	config := &Config{}
	require.NoError(t, config.MergeFile(path))

	assert.Equal(t, path, config.ConfigFile)
	assert.Equal(t, "/var/cache/whichllm", config.CacheDir)
	assert.Equal(t, "http://mirror.local/api.json", config.ModelsDevURL)
	assert.Equal(t, "@every 30m", config.RefreshSchedule)
	assert.Equal(t, map[string]string{"mistralai": "mistral"}, config.Aliases)

	t.Run("missing file", func(t *testing.T) {
		err := (&Config{}).MergeFile(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
}

func TestConfig_UpdateFromFlags(t *testing.T) {
	config := &Config{Format: "json", LogLevel: "warn"}

	config.UpdateFromFlags(true, false, true, "", "")
	assert.True(t, config.Verbose)
	assert.True(t, config.NoColor)
	assert.Equal(t, "json", config.Format, "empty flag keeps configured format")
	assert.Equal(t, "warn", config.LogLevel)

	config.UpdateFromFlags(false, true, false, "yaml", "debug")
	assert.Equal(t, "yaml", config.Format)
	assert.Equal(t, "debug", config.LogLevel)
}
