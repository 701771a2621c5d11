// Package app provides the application context and dependency management
// for the whichllm CLI. It centralizes configuration, logging and the
// lazily created client so commands share one cache and one orchestrator.
package app

import (
	"context"
	"maps"
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/whichllm"
	"github.com/agentstation/whichllm/pkg/errors"
	"github.com/agentstation/whichllm/pkg/matcher"
)

// App represents the whichllm application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	// Configuration
	config *Config

	// Logger
	logger *zerolog.Logger

	// Client instance (lazy-initialized, singleton)
	mu     sync.RWMutex
	client whichllm.Client

	// extra client options, mostly for tests
	clientOptions []whichllm.Option
}

// New creates a new App instance with the given version information.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, errors.WrapResource("load", "config", "", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// Client returns the whichllm client, creating it lazily if needed.
func (a *App) Client() (whichllm.Client, error) {
	a.mu.RLock()
	if a.client != nil {
		c := a.client
		a.mu.RUnlock()
		return c, nil
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.client != nil {
		return a.client, nil
	}

	opts, err := a.buildClientOptions()
	if err != nil {
		return nil, err
	}
	c, err := whichllm.New(opts...)
	if err != nil {
		return nil, errors.WrapResource("create", "client", "", err)
	}

	a.client = c
	return c, nil
}

// Shutdown performs graceful shutdown of the application. Watch mode stops
// through context cancellation, so there is nothing left to release here
// beyond flushing the final log line.
func (a *App) Shutdown(_ context.Context) error {
	a.mu.RLock()
	started := a.client != nil
	a.mu.RUnlock()

	if started {
		a.logger.Debug().Msg("Shutting down")
	}
	return nil
}

// buildClientOptions constructs client options from the app configuration.
func (a *App) buildClientOptions() ([]whichllm.Option, error) {
	var opts []whichllm.Option

	if a.config.CacheDir != "" {
		opts = append(opts, whichllm.WithCacheDir(a.config.CacheDir))
	}
	if a.config.APIKey != "" {
		opts = append(opts, whichllm.WithAPIKey(a.config.APIKey))
	}
	if a.config.BaseURL != "" {
		opts = append(opts, whichllm.WithBaseURL(a.config.BaseURL))
	}
	if a.config.ModelsDevURL != "" {
		opts = append(opts, whichllm.WithModelsDevURL(a.config.ModelsDevURL))
	}
	if a.config.SecondaryValidity > 0 {
		opts = append(opts, whichllm.WithSecondaryValidity(a.config.SecondaryValidity))
	}
	if a.config.HTTPTimeout > 0 {
		opts = append(opts, whichllm.WithHTTPTimeout(a.config.HTTPTimeout))
	}

	aliases, err := a.aliases()
	if err != nil {
		return nil, err
	}
	if aliases != nil {
		opts = append(opts, whichllm.WithAliases(aliases))
	}

	return append(opts, a.clientOptions...), nil
}

// aliases merges the built-in table with the alias file and inline config
// entries. Inline entries win over the file. It returns nil when nothing
// is configured so the client keeps its defaults.
func (a *App) aliases() (matcher.Aliases, error) {
	if a.config.AliasFile == "" && len(a.config.Aliases) == 0 {
		return nil, nil
	}

	merged := matcher.DefaultAliases()
	if a.config.AliasFile != "" {
		loaded, err := matcher.LoadAliases(a.config.AliasFile)
		if err != nil {
			return nil, errors.NewConfigError("aliases", "failed to load alias file", err)
		}
		maps.Copy(merged, loaded)
	}
	maps.Copy(merged, a.config.Aliases)
	return merged, nil
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithClient sets a custom client instance (useful for testing).
func WithClient(c whichllm.Client) Option {
	return func(a *App) error {
		a.client = c
		return nil
	}
}

// WithClientOptions appends options used when the client is created lazily.
func WithClientOptions(opts ...whichllm.Option) Option {
	return func(a *App) error {
		a.clientOptions = append(a.clientOptions, opts...)
		return nil
	}
}
