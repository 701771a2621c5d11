package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/whichllm"
	"github.com/agentstation/whichllm/internal/cmd/compare"
	"github.com/agentstation/whichllm/internal/cmd/cost"
	"github.com/agentstation/whichllm/pkg/errors"
	"github.com/agentstation/whichllm/pkg/fusion"
	"github.com/agentstation/whichllm/pkg/matcher"
	"github.com/agentstation/whichllm/pkg/models"
)

const aaPayload = `{
  "status": 200,
  "data": [
    {
      "id": "1",
      "name": "GPT-4o mini",
      "slug": "gpt-4o-mini-2024-07-18",
      "model_creator": {"id": "c1", "name": "OpenAI", "slug": "openai"},
      "evaluations": {"artificial_analysis_intelligence_index": 36.2},
      "pricing": {"price_1m_input_tokens": 0.15, "price_1m_output_tokens": 0.6}
    },
    {
      "id": "2",
      "name": "Llama 3.1 70B",
      "slug": "llama-3-1-70b",
      "model_creator": {"id": "c2", "name": "Meta", "slug": "meta"}
    },
    {
      "id": "3",
      "name": "Mystery",
      "slug": "mystery",
      "model_creator": {"id": "c3", "name": "Nobody"}
    }
  ]
}`

const modelsDevPayload = `{
  "openai": {
    "id": "openai",
    "name": "OpenAI",
    "models": {
      "gpt-4o-mini": {
        "id": "gpt-4o-mini",
        "name": "GPT-4o mini",
        "tool_call": true,
        "limit": {"context": 128000, "output": 16384}
      }
    }
  },
  "llama": {
    "id": "llama",
    "name": "Llama",
    "models": {
      "llama-3-1-70b": {"id": "llama-3-1-70b", "name": "Llama 3.1 70B", "open_weights": true}
    }
  }
}`

func newUpstream(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v2/data/llms/models", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(aaPayload))
	})
	mux.HandleFunc("/api.json", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(modelsDevPayload))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	server := newUpstream(t)
	config := &Config{
		CacheDir:          t.TempDir(),
		APIKey:            "test-key",
		BaseURL:           server.URL + "/api/v2",
		ModelsDevURL:      server.URL + "/api.json",
		SecondaryValidity: 24 * time.Hour,
		HTTPTimeout:       5 * time.Second,
		RefreshSchedule:   "@hourly",
		LogFormat:         "json",
		LogOutput:         "discard",
	}
	logger := zerolog.Nop()
	app, err := New("1.0.0", "abc123", "2024-01-01", "test", WithConfig(config), WithLogger(&logger))
	require.NoError(t, err)
	return app
}

// run executes one CLI invocation and captures its output.
func run(t *testing.T, app *App, args ...string) (string, string, error) {
	t.Helper()
	cmd := app.createRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

// TestApp_New verifies app initialization.
func TestApp_New(t *testing.T) {
	app, err := New("1.0.0", "abc123", "2024-01-01", "test")
	require.NoError(t, err)

	assert.Equal(t, "1.0.0", app.Version())
	assert.Equal(t, "abc123", app.Commit())
	assert.Equal(t, "2024-01-01", app.Date())
	assert.Equal(t, "test", app.BuiltBy())
	assert.NotNil(t, app.Logger())
	assert.NotNil(t, app.Config())
}

// TestApp_Client_Singleton verifies that concurrent Client() calls share one instance.
func TestApp_Client_Singleton(t *testing.T) {
	app := newTestApp(t)

	const goroutines = 20
	var wg sync.WaitGroup
	clients := make([]whichllm.Client, goroutines)
	for i := range goroutines {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			c, err := app.Client()
			assert.NoError(t, err)
			clients[idx] = c
		}(i)
	}
	wg.Wait()

	for i := 1; i < goroutines; i++ {
		assert.Same(t, clients[0], clients[i])
	}
}

func TestApp_Aliases(t *testing.T) {
	app := newTestApp(t)

	aliases, err := app.aliases()
	require.NoError(t, err)
	assert.Nil(t, aliases, "no configured aliases keeps client defaults")

	app.config.Aliases = map[string]string{"mistralai": "mistral"}
	aliases, err = app.aliases()
	require.NoError(t, err)
	assert.Equal(t, matcher.Aliases{"meta": "llama", "mistralai": "mistral"}, aliases)

	app.config.AliasFile = "/does/not/exist.yaml"
	_, err = app.aliases()
	require.Error(t, err)
	var cfgErr *errors.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestRefreshCommand(t *testing.T) {
	app := newTestApp(t)

	stdout, _, err := run(t, app, "refresh", "-o", "table")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Fused 2 models")
	assert.Contains(t, stdout, "1 exact, 1 fuzzy, 0 unmatched")
	assert.Contains(t, stdout, "artificial_analysis: fetched, 2 records, 1 dropped")
	assert.Contains(t, stdout, "models_dev: fetched, 2 records")

	stdout, _, err = run(t, app, "refresh", "-o", "table")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Merged view up to date (2 models)")
	assert.Contains(t, stdout, "artificial_analysis: reused")
}

func TestRefreshCommand_JSON(t *testing.T) {
	app := newTestApp(t)

	stdout, _, err := run(t, app, "refresh", "-o", "json")
	require.NoError(t, err)

	var result fusion.Result
	require.NoError(t, json.Unmarshal([]byte(stdout), &result))
	assert.True(t, result.Fused)
	assert.Equal(t, 2, result.Models)
	assert.NotEmpty(t, result.RunID)
}

func TestListCommand(t *testing.T) {
	app := newTestApp(t)
	_, _, err := run(t, app, "refresh", "-o", "json")
	require.NoError(t, err)

	list := func(t *testing.T, args ...string) []models.Model {
		t.Helper()
		stdout, _, err := run(t, app, append([]string{"list", "-o", "json"}, args...)...)
		require.NoError(t, err)
		var out []models.Model
		require.NoError(t, json.Unmarshal([]byte(stdout), &out))
		return out
	}

	t.Run("all", func(t *testing.T) {
		out := list(t)
		require.Len(t, out, 2)
		assert.Equal(t, "gpt-4o-mini-2024-07-18", out[0].Slug)
	})

	t.Run("capability excludes unknown", func(t *testing.T) {
		out := list(t, "--capability", "tool_call")
		require.Len(t, out, 1)
		assert.Equal(t, models.FlagTrue, out[0].Capabilities.ToolCall)
	})

	t.Run("confidence", func(t *testing.T) {
		out := list(t, "--confidence", "exact")
		require.Len(t, out, 1)
		assert.Equal(t, "llama-3-1-70b", out[0].Slug)
	})

	t.Run("creator", func(t *testing.T) {
		out := list(t, "--creator", "meta")
		require.Len(t, out, 1)
		assert.Equal(t, "Meta", out[0].Creator)
	})

	t.Run("glob filter", func(t *testing.T) {
		out := list(t, "--filter", "gpt-*")
		require.Len(t, out, 1)
	})

	t.Run("limit", func(t *testing.T) {
		assert.Len(t, list(t, "--limit", "1"), 1)
	})

	t.Run("table", func(t *testing.T) {
		stdout, stderr, err := run(t, app, "list", "-o", "wide")
		require.NoError(t, err)
		assert.Contains(t, stdout, "GPT-4o mini")
		assert.Contains(t, stdout, "fuzzy")
		assert.Contains(t, stderr, "Found 2 models")
	})
}

func TestListCommand_Errors(t *testing.T) {
	app := newTestApp(t)

	_, _, err := run(t, app, "list", "-o", "json")
	assert.True(t, errors.IsNotFound(err), "listing before a refresh: %v", err)

	_, _, err = run(t, app, "list", "--capability", "telepathy")
	assert.ErrorContains(t, err, "unknown capability")

	_, _, err = run(t, app, "list", "--confidence", "maybe")
	assert.ErrorContains(t, err, "unknown match confidence")

	_, _, err = run(t, app, "list", "-o", "xml")
	assert.ErrorContains(t, err, "invalid format")
}

func TestCompareCommand(t *testing.T) {
	app := newTestApp(t)
	_, _, err := run(t, app, "refresh", "-o", "json")
	require.NoError(t, err)

	stdout, _, err := run(t, app, "compare", "gpt-4o-mini", "llama", "-o", "json")
	require.NoError(t, err)
	var res compare.Result
	require.NoError(t, json.Unmarshal([]byte(stdout), &res))
	assert.Equal(t, []string{"GPT-4o mini", "Llama 3.1 70B"}, res.Models)
	for _, row := range res.Rows {
		if row.Name == "Intelligence" {
			assert.Equal(t, []string{"36.2 *", "-"}, row.Values)
			assert.Equal(t, []bool{true, false}, row.Winners)
		}
	}

	stdout, _, err = run(t, app, "compare", "gpt", "llama", "-o", "table")
	require.NoError(t, err)
	assert.Contains(t, stdout, "$0.15 *")
	assert.Contains(t, stdout, "* = best in category")

	_, _, err = run(t, app, "compare", "gpt-4o-mini")
	assert.True(t, errors.IsValidationError(err), "one model: %v", err)

	_, _, err = run(t, app, "compare", "claude", "gemini")
	assert.True(t, errors.IsNotFound(err), "no match: %v", err)
}

func TestCostCommand(t *testing.T) {
	app := newTestApp(t)
	_, _, err := run(t, app, "refresh", "-o", "json")
	require.NoError(t, err)

	stdout, _, err := run(t, app, "cost", "gpt-4o-mini", "llama",
		"--input", "1M", "--output", "1M", "--requests", "10", "--period", "daily", "-o", "json")
	require.NoError(t, err)
	var estimates []cost.Estimate
	require.NoError(t, json.Unmarshal([]byte(stdout), &estimates))
	require.Len(t, estimates, 2)
	require.NotNil(t, estimates[0].TotalCost)
	assert.InDelta(t, 0.75, *estimates[0].TotalCost, 1e-9)
	assert.InDelta(t, 7.5, *estimates[0].PeriodCost, 1e-9)
	assert.InDelta(t, 225, *estimates[0].MonthlyCost, 1e-9)
	assert.Nil(t, estimates[1].TotalCost, "unpriced model stays unknown")

	stdout, _, err = run(t, app, "cost", "gpt-4o-mini", "--input", "2K", "--output", "500", "-o", "table")
	require.NoError(t, err)
	assert.Contains(t, stdout, "2K input / 500 output tokens per request")
	assert.Contains(t, stdout, "$0.0006")
	assert.NotContains(t, stdout, "lowest cost")

	_, _, err = run(t, app, "cost", "gpt-4o-mini", "--input", "lots")
	assert.True(t, errors.IsValidationError(err), "got %v", err)

	_, _, err = run(t, app, "cost", "gpt-4o-mini", "--period", "weekly")
	assert.True(t, errors.IsValidationError(err), "got %v", err)

	_, _, err = run(t, app, "cost", "gpt-4o-mini", "--requests", "0")
	assert.True(t, errors.IsValidationError(err), "got %v", err)
}

func TestStatusCommand(t *testing.T) {
	app := newTestApp(t)

	stdout, _, err := run(t, app, "status", "-o", "table")
	require.NoError(t, err)
	assert.Contains(t, stdout, "missing")

	_, _, err = run(t, app, "refresh", "-o", "json")
	require.NoError(t, err)

	stdout, _, err = run(t, app, "status", "-o", "json")
	require.NoError(t, err)
	var metas map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(stdout), &metas))
	assert.Contains(t, metas, "artificial_analysis")
	assert.Contains(t, metas, "models_dev")
	assert.Contains(t, metas, fusion.MergedArtifact)
	assert.NotEqual(t, "null", string(metas[fusion.MergedArtifact]))
}

func TestCacheCommands(t *testing.T) {
	app := newTestApp(t)
	_, _, err := run(t, app, "refresh", "-o", "json")
	require.NoError(t, err)

	stdout, _, err := run(t, app, "cache", "stats", "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, stdout, `"artifacts": 3`)

	stdout, _, err = run(t, app, "cache", "clear")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Removed 6 files")
}

func TestWatchCommand_InvalidSchedule(t *testing.T) {
	app := newTestApp(t)

	_, _, err := run(t, app, "watch", "--skip-initial", "--schedule", "every tuesday")
	assert.True(t, errors.IsValidationError(err), "got %v", err)
}

func TestVersionCommand(t *testing.T) {
	app := newTestApp(t)

	stdout, _, err := run(t, app, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "whichllm version 1.0.0")
	assert.Contains(t, stdout, "commit: abc123")
}
