package artificialanalysis

import (
	"context"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/whichllm/pkg/errors"
	"github.com/agentstation/whichllm/pkg/sources"
)

const mockResponse = `{
  "status": 200,
  "data": [
    {
      "id": "2dad8957-4c16-4e74-bf2d-8b21514e0ae9",
      "name": "GPT-4o mini",
      "slug": "gpt-4o-mini-2024-07-18",
      "release_date": "2024-07-18",
      "model_creator": {"id": "e67e56e3", "name": "OpenAI", "slug": "openai"},
      "evaluations": {
        "artificial_analysis_intelligence_index": 21.2,
        "artificial_analysis_coding_index": 18.4,
        "mmlu_pro": 0.648,
        "some_new_benchmark": 0.5
      },
      "pricing": {
        "price_1m_blended_3_to_1": 0.263,
        "price_1m_input_tokens": 0.15,
        "price_1m_output_tokens": 0.6
      },
      "median_output_tokens_per_second": 72.1,
      "median_time_to_first_token_seconds": 0.41
    },
    {
      "id": "no-creator-slug",
      "name": "Mystery",
      "slug": "mystery-1",
      "model_creator": {"id": "x", "name": "Unknown"}
    },
    {
      "id": "llama",
      "name": "Llama 3 70B",
      "slug": "llama-3-70b",
      "model_creator": {"id": "m", "name": "Meta", "slug": "meta"}
    }
  ]
}`

func newServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func TestFetch(t *testing.T) {
	server := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v2/data/llms/models", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get(APIKeyHeader))
		_, _ = w.Write([]byte(mockResponse))
	})

	src := New(WithAPIKey("test-key"), WithBaseURL(server.URL+"/api/v2/"))
	batch, err := src.Fetch(context.Background())
	require.NoError(t, err)

	require.Equal(t, 2, batch.Len())
	require.Equal(t, 1, batch.Dropped())
	var schemaErr *errors.SchemaError
	require.True(t, stderrors.As(batch.Skipped[0], &schemaErr))
	assert.Equal(t, 1, schemaErr.Index)
	assert.Equal(t, "model_creator.slug", schemaErr.Field)

	mini := batch.Records[0]
	assert.Equal(t, "openai/gpt-4o-mini-2024-07-18", mini.Identity().String())
	assert.Equal(t, "OpenAI", mini.CreatorName)
	assert.Equal(t, 21.2, *mini.Intelligence)
	assert.Nil(t, mini.Math)
	assert.Equal(t, 0.15, *mini.InputPrice)
	assert.Equal(t, 0.263, *mini.BlendedPrice)
	assert.Equal(t, 72.1, *mini.TokensPerSecond)
	assert.Equal(t, "2024-07-18", *mini.ReleaseDate)

	llama := batch.Records[1]
	assert.Nil(t, llama.Intelligence)
	assert.Nil(t, llama.InputPrice)
	assert.Nil(t, llama.ReleaseDate)
}

func TestFetchRequiresAPIKey(t *testing.T) {
	_, err := New().Fetch(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsFetchError(err))
	assert.ErrorIs(t, err, errors.ErrAPIKeyRequired)
}

func TestFetchStatusErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		check  func(error) bool
	}{
		{name: "invalid key", status: http.StatusUnauthorized, check: errors.IsAPIKeyError},
		{name: "rate limited", status: http.StatusTooManyRequests, check: errors.IsRateLimited},
		{name: "server error", status: http.StatusInternalServerError, check: errors.IsProviderUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			})
			_, err := New(WithAPIKey("k"), WithBaseURL(server.URL)).Fetch(context.Background())
			require.Error(t, err)
			assert.True(t, errors.IsFetchError(err))
			assert.True(t, tt.check(err), "unexpected error %v", err)
		})
	}
}

func TestNormalizeMissingSlug(t *testing.T) {
	slug := "openai"
	batch := Normalize(&Response{Data: []Model{
		{ID: "a", ModelCreator: Creator{Slug: &slug}},
		{ID: "b", Slug: "gpt-4o", ModelCreator: Creator{Slug: &slug}},
	}})
	assert.Equal(t, 1, batch.Len())
	assert.Equal(t, 1, batch.Dropped())
	assert.True(t, errors.IsSchemaError(batch.Skipped[0]))
}

func TestSourceContract(t *testing.T) {
	src := New()
	assert.Equal(t, sources.ArtificialAnalysisID, src.ID())
	assert.Equal(t, sources.Primary, src.Role())
	assert.True(t, src.Policy().Manual)
}
