package modelsdev

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/whichllm/pkg/errors"
	"github.com/agentstation/whichllm/pkg/sources"
)

// mockAPIJSON returns a models.dev-like payload with an unknown field, a
// partially populated model and a model missing its id.
const mockAPIJSON = `{
  "openai": {
    "id": "openai",
    "name": "OpenAI",
    "env": ["OPENAI_API_KEY"],
    "npm": "@ai-sdk/openai",
    "doc": "https://platform.openai.com/docs/models",
    "future_field": {"nested": true},
    "models": {
      "gpt-4o-mini": {
        "id": "gpt-4o-mini",
        "name": "GPT-4o mini",
        "family": "gpt-4o",
        "attachment": true,
        "reasoning": false,
        "tool_call": true,
        "structured_output": true,
        "temperature": true,
        "knowledge": "2023-09",
        "release_date": "2024-07-18",
        "last_updated": "2024-07-18",
        "open_weights": false,
        "limit": {"context": 128000, "output": 16384},
        "cost": {"input": 0.15, "output": 0.6, "cache_read": 0.08},
        "modalities": {"input": ["text", "image"], "output": ["text"]},
        "brand_new_capability": "ignored"
      },
      "gpt-4o": {
        "id": "gpt-4o",
        "name": "GPT-4o"
      }
    }
  },
  "anthropic": {
    "id": "anthropic",
    "name": "Anthropic",
    "env": [],
    "models": {
      "broken": {"name": "No ID"}
    }
  },
  "llama": {
    "id": "llama",
    "name": "Llama",
    "models": {
      "llama-3-70b": {"id": "llama-3-70b", "name": "Llama 3 70B", "modalities": {"input": ["text"]}}
    }
  }
}`

func newServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestFetch(t *testing.T) {
	server := newServer(t, http.StatusOK, mockAPIJSON)
	src := New(WithURL(server.URL))

	batch, err := src.Fetch(context.Background())
	require.NoError(t, err)

	require.Equal(t, 3, batch.Len())
	require.Equal(t, 1, batch.Dropped())
	assert.True(t, errors.IsSchemaError(batch.Skipped[0]))

	// Sorted by provider key then model key
	assert.Equal(t, "llama/llama-3-70b", batch.Records[0].Identity().String())
	assert.Equal(t, "openai/gpt-4o", batch.Records[1].Identity().String())
	assert.Equal(t, "openai/gpt-4o-mini", batch.Records[2].Identity().String())

	mini := batch.Records[2]
	assert.True(t, *mini.ToolCall)
	assert.False(t, *mini.Reasoning)
	assert.Equal(t, int64(128000), *mini.ContextWindow)
	assert.Nil(t, mini.MaxInputTokens)
	assert.Equal(t, 0.15, *mini.CostInput)
	assert.Nil(t, mini.CostCacheWrite)
	assert.Equal(t, "text,image", *mini.InputModalities)
	assert.Equal(t, "OPENAI_API_KEY", *mini.ProviderEnv)
	assert.Equal(t, "@ai-sdk/openai", *mini.ProviderNPM)

	partial := batch.Records[1]
	assert.Nil(t, partial.ToolCall)
	assert.Nil(t, partial.ContextWindow)
	assert.Nil(t, partial.InputModalities)

	llama := batch.Records[0]
	assert.Equal(t, "text", *llama.InputModalities)
	require.NotNil(t, llama.OutputModalities)
	assert.Equal(t, "", *llama.OutputModalities)
}

func TestFetchStableOrder(t *testing.T) {
	server := newServer(t, http.StatusOK, mockAPIJSON)
	src := New(WithURL(server.URL))

	first, err := src.Fetch(context.Background())
	require.NoError(t, err)
	for range 5 {
		again, err := src.Fetch(context.Background())
		require.NoError(t, err)
		assert.Equal(t, first.Records, again.Records)
	}
}

func TestFetchErrors(t *testing.T) {
	t.Run("server error", func(t *testing.T) {
		server := newServer(t, http.StatusServiceUnavailable, "down")
		_, err := New(WithURL(server.URL)).Fetch(context.Background())
		require.Error(t, err)
		assert.True(t, errors.IsFetchError(err))
		assert.True(t, errors.IsProviderUnavailable(err))
	})

	t.Run("malformed payload", func(t *testing.T) {
		server := newServer(t, http.StatusOK, `{"openai": [`)
		_, err := New(WithURL(server.URL)).Fetch(context.Background())
		require.Error(t, err)
		assert.True(t, errors.IsFetchError(err))
	})
}

func TestSourceContract(t *testing.T) {
	src := New(WithValidity(time.Hour))
	assert.Equal(t, sources.ModelsDevID, src.ID())
	assert.Equal(t, sources.Secondary, src.Role())
	assert.False(t, src.Policy().Manual)
	assert.Equal(t, time.Hour, src.Policy().Validity)

	assert.Equal(t, 24*time.Hour, New().Policy().Validity)
}
