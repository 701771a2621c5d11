package artificialanalysis

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/agentstation/whichllm/internal/transport"
	"github.com/agentstation/whichllm/pkg/constants"
	"github.com/agentstation/whichllm/pkg/errors"
	"github.com/agentstation/whichllm/pkg/logging"
	"github.com/agentstation/whichllm/pkg/records"
	"github.com/agentstation/whichllm/pkg/sources"
)

// APIKeyHeader carries the API key on every request.
const APIKeyHeader = "x-api-key"

// Source fetches the LLM listing from Artificial Analysis.
type Source struct {
	url    string
	apiKey string
	client *transport.Client
}

// Ensure Source implements sources.Source
var _ sources.Source[records.Benchmark] = (*Source)(nil)

// Option configures a Source.
type Option func(*options)

type options struct {
	apiKey  string
	baseURL string
	timeout time.Duration
	http    *http.Client
}

// WithAPIKey sets the API key.
func WithAPIKey(key string) Option {
	return func(o *options) {
		o.apiKey = key
	}
}

// WithBaseURL overrides the API base URL.
func WithBaseURL(url string) Option {
	return func(o *options) {
		if url != "" {
			o.baseURL = url
		}
	}
}

// WithTimeout sets the HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// WithHTTPClient replaces the HTTP client, mostly for tests.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.http = c
	}
}

// New creates an Artificial Analysis source.
func New(opts ...Option) *Source {
	o := &options{
		baseURL: constants.ArtificialAnalysisBaseURL,
		timeout: constants.DefaultHTTPTimeout,
	}
	for _, opt := range opts {
		opt(o)
	}

	return &Source{
		url:    strings.TrimRight(o.baseURL, "/") + constants.ArtificialAnalysisLLMPath,
		apiKey: o.apiKey,
		client: transport.New(string(sources.ArtificialAnalysisID),
			transport.WithAuth(&transport.HeaderAuth{Header: APIKeyHeader}, o.apiKey),
			transport.WithHTTPClient(o.http),
			transport.WithTimeout(o.timeout),
		),
	}
}

// ID returns the identifier of this source.
func (s *Source) ID() sources.ID {
	return sources.ArtificialAnalysisID
}

// Role returns sources.Primary.
func (s *Source) Role() sources.Role {
	return sources.Primary
}

// Policy refreshes only on explicit request.
func (s *Source) Policy() sources.Policy {
	return sources.ManualPolicy()
}

// Fetch downloads the full LLM listing.
func (s *Source) Fetch(ctx context.Context) (*sources.Batch[records.Benchmark], error) {
	if s.apiKey == "" {
		return nil, errors.NewFetchError(string(s.ID()), errors.ErrAPIKeyRequired)
	}

	logger := logging.FromContext(ctx)
	logger.Debug().Str("url", s.url).Msg("Fetching Artificial Analysis models")

	var resp Response
	if err := s.client.GetJSON(ctx, s.url, &resp); err != nil {
		return nil, errors.WrapFetch(string(s.ID()), err)
	}

	batch := Normalize(&resp)
	for _, skipped := range batch.Skipped {
		logger.Warn().Err(skipped).Msg("Dropping Artificial Analysis record")
	}
	logger.Debug().
		Int("records", batch.Len()).
		Int("dropped", batch.Dropped()).
		Msg("Parsed Artificial Analysis models")

	return batch, nil
}
