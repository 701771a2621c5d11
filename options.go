package whichllm

import (
	"net/http"
	"time"

	"github.com/agentstation/whichllm/pkg/authority"
	"github.com/agentstation/whichllm/pkg/constants"
	"github.com/agentstation/whichllm/pkg/errors"
	"github.com/agentstation/whichllm/pkg/fusion"
	"github.com/agentstation/whichllm/pkg/matcher"
)

// Option is a function that configures a Client instance.
type Option func(*options) error

// options holds the client configuration.
type options struct {
	cacheDir          string
	apiKey            string
	baseURL           string
	modelsDevURL      string
	secondaryValidity time.Duration
	httpTimeout       time.Duration
	httpClient        *http.Client
	aliases           matcher.Aliases
	authority         authority.Authority
	now               func() time.Time

	primary   primarySource
	secondary secondarySource
}

// defaults returns the default client configuration.
func defaults() *options {
	return &options{
		baseURL:           constants.ArtificialAnalysisBaseURL,
		modelsDevURL:      constants.ModelsDevAPIURL,
		secondaryValidity: constants.SecondaryValidity,
		httpTimeout:       constants.DefaultHTTPTimeout,
	}
}

// apply applies the given options in order.
func (o *options) apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return err
		}
	}
	return nil
}

// fusionOptions translates the configuration into orchestrator options.
func (o *options) fusionOptions() []fusion.Option {
	opts := []fusion.Option{
		fusion.WithAliases(o.aliases),
		fusion.WithAuthority(o.authority),
	}
	if o.now != nil {
		opts = append(opts, fusion.WithClock(o.now))
	}
	return opts
}

// WithCacheDir sets the directory holding the snapshot and merged artifacts.
func WithCacheDir(dir string) Option {
	return func(o *options) error {
		o.cacheDir = dir
		return nil
	}
}

// WithAPIKey sets the Artificial Analysis API key.
func WithAPIKey(key string) Option {
	return func(o *options) error {
		o.apiKey = key
		return nil
	}
}

// WithBaseURL overrides the Artificial Analysis API base URL.
func WithBaseURL(url string) Option {
	return func(o *options) error {
		if url != "" {
			o.baseURL = url
		}
		return nil
	}
}

// WithModelsDevURL overrides the models.dev api.json URL.
func WithModelsDevURL(url string) Option {
	return func(o *options) error {
		if url != "" {
			o.modelsDevURL = url
		}
		return nil
	}
}

// WithSecondaryValidity sets how long a models.dev snapshot is reused.
func WithSecondaryValidity(d time.Duration) Option {
	return func(o *options) error {
		if d <= 0 {
			return &errors.ValidationError{
				Field:   "secondaryValidity",
				Value:   d,
				Message: "validity window must be positive",
			}
		}
		o.secondaryValidity = d
		return nil
	}
}

// WithHTTPTimeout sets the timeout of upstream requests.
func WithHTTPTimeout(d time.Duration) Option {
	return func(o *options) error {
		if d <= 0 {
			return &errors.ValidationError{
				Field:   "httpTimeout",
				Value:   d,
				Message: "timeout must be positive",
			}
		}
		o.httpTimeout = d
		return nil
	}
}

// WithHTTPClient sets the HTTP client used for both sources.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) error {
		o.httpClient = c
		return nil
	}
}

// WithAliases replaces the provider alias table used for matching.
func WithAliases(aliases matcher.Aliases) Option {
	return func(o *options) error {
		o.aliases = aliases
		return nil
	}
}

// WithAuthority replaces the field authority table.
func WithAuthority(a authority.Authority) Option {
	return func(o *options) error {
		o.authority = a
		return nil
	}
}

// WithClock overrides the time source used for validity windows.
func WithClock(now func() time.Time) Option {
	return func(o *options) error {
		o.now = now
		return nil
	}
}

// WithPrimarySource replaces the benchmark source.
func WithPrimarySource(src primarySource) Option {
	return func(o *options) error {
		o.primary = src
		return nil
	}
}

// WithSecondarySource replaces the capability source.
func WithSecondarySource(src secondarySource) Option {
	return func(o *options) error {
		o.secondary = src
		return nil
	}
}
