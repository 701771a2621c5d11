package modelsdev

import (
	"context"
	"net/http"
	"time"

	"github.com/agentstation/whichllm/internal/transport"
	"github.com/agentstation/whichllm/pkg/constants"
	"github.com/agentstation/whichllm/pkg/errors"
	"github.com/agentstation/whichllm/pkg/logging"
	"github.com/agentstation/whichllm/pkg/records"
	"github.com/agentstation/whichllm/pkg/sources"
)

// Source fetches the models.dev catalog over HTTP.
type Source struct {
	url    string
	policy sources.Policy
	client *transport.Client
}

// Ensure Source implements sources.Source
var _ sources.Source[records.Capability] = (*Source)(nil)

// Option configures a Source.
type Option func(*options)

type options struct {
	url      string
	validity time.Duration
	timeout  time.Duration
	http     *http.Client
}

// WithURL overrides the api.json URL.
func WithURL(url string) Option {
	return func(o *options) {
		if url != "" {
			o.url = url
		}
	}
}

// WithValidity overrides how long a snapshot stays fresh.
func WithValidity(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.validity = d
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

// New creates a models.dev source.
func New(opts ...Option) *Source {
	o := &options{
		url:      constants.ModelsDevAPIURL,
		validity: constants.SecondaryValidity,
		timeout:  constants.DefaultHTTPTimeout,
	}
	for _, opt := range opts {
		opt(o)
	}

	return &Source{
		url:    o.url,
		policy: sources.WindowPolicy(o.validity),
		client: transport.New(string(sources.ModelsDevID),
			transport.WithHTTPClient(o.http),
			transport.WithTimeout(o.timeout),
		),
	}
}

// ID returns the identifier of this source.
func (s *Source) ID() sources.ID {
	return sources.ModelsDevID
}

// Role returns sources.Secondary.
func (s *Source) Role() sources.Role {
	return sources.Secondary
}

// Policy refreshes once the snapshot outlives the validity window.
func (s *Source) Policy() sources.Policy {
	return s.policy
}

// Fetch downloads and flattens the catalog.
func (s *Source) Fetch(ctx context.Context) (*sources.Batch[records.Capability], error) {
	logger := logging.FromContext(ctx)
	logger.Debug().Str("url", s.url).Msg("Downloading models.dev catalog")

	var api API
	if err := s.client.GetJSON(ctx, s.url, &api); err != nil {
		return nil, errors.WrapFetch(string(s.ID()), err)
	}

	batch := Flatten(api)
	for _, skipped := range batch.Skipped {
		logger.Warn().Err(skipped).Msg("Dropping models.dev record")
	}
	logger.Debug().
		Int("providers", len(api)).
		Int("records", batch.Len()).
		Int("dropped", batch.Dropped()).
		Msg("Parsed models.dev catalog")

	return batch, nil
}
