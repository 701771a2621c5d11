// Package whichllm fuses AI model benchmark data with model capability data
// into one queryable dataset and keeps it cached on disk.
//
// Benchmark records come from Artificial Analysis (the primary source) and
// capability records from models.dev (the secondary source). Each source is
// cached as its own columnar snapshot with an independent refresh policy; the
// merged view is rebuilt only when either snapshot's fingerprint changes.
//
// Example usage:
//
//	client, err := whichllm.New(
//	    whichllm.WithAPIKey(os.Getenv("ARTIFICIAL_ANALYSIS_API_KEY")),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Refresh the cache (force refetches the primary source)
//	result, err := client.Refresh(ctx, false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, w := range result.Warnings {
//	    log.Printf("warning: %v", w)
//	}
//
//	// Read the merged view
//	list, err := client.Models()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, m := range list {
//	    fmt.Printf("%s tool_call=%s\n", m.Name, m.Capabilities.ToolCall)
//	}
//
//	// Refresh on a schedule until ctx is canceled
//	err = client.Watch(ctx, "@hourly")
package whichllm

import (
	"github.com/agentstation/whichllm/internal/sources/artificialanalysis"
	"github.com/agentstation/whichllm/internal/sources/modelsdev"
	"github.com/agentstation/whichllm/pkg/fusion"
	"github.com/agentstation/whichllm/pkg/logging"
	"github.com/agentstation/whichllm/pkg/records"
	"github.com/agentstation/whichllm/pkg/snapshot"
	"github.com/agentstation/whichllm/pkg/sources"
)

// Compile-time interface check to ensure proper implementation.
var _ Client = (*client)(nil)

// Client manages the fused model dataset and its cache.
type Client interface {

	// Catalog provides read access to the merged view
	Catalog

	// Refresher runs the fetch and fusion pipeline
	Refresher

	// Cache handles cache maintenance
	Cache

	// Watcher runs scheduled refreshes
	Watcher

	// Hooks provides access to event callback registration
	Hooks
}

// client is the internal implementation of the Client interface.
type client struct {

	// options are the configured options for the client
	options *options

	// orchestrator owns the snapshot stores and the merged store
	orchestrator *fusion.Orchestrator

	// hooks are notified after each committed fusion
	hooks *hooks
}

// New creates a new Client instance with the given options.
func New(opts ...Option) (Client, error) {
	o := defaults()
	if err := o.apply(opts...); err != nil {
		return nil, err
	}

	if o.cacheDir == "" {
		dir, err := snapshot.DefaultDir()
		if err != nil {
			return nil, err
		}
		o.cacheDir = dir
	}

	primary := o.primary
	if primary == nil {
		primary = artificialanalysis.New(
			artificialanalysis.WithAPIKey(o.apiKey),
			artificialanalysis.WithBaseURL(o.baseURL),
			artificialanalysis.WithTimeout(o.httpTimeout),
			artificialanalysis.WithHTTPClient(o.httpClient),
		)
	}
	secondary := o.secondary
	if secondary == nil {
		secondary = modelsdev.New(
			modelsdev.WithURL(o.modelsDevURL),
			modelsdev.WithValidity(o.secondaryValidity),
			modelsdev.WithTimeout(o.httpTimeout),
			modelsdev.WithHTTPClient(o.httpClient),
		)
	}

	orch, err := fusion.New(o.cacheDir, primary, secondary, o.fusionOptions()...)
	if err != nil {
		return nil, err
	}

	logging.Debug().
		Str("cache_dir", o.cacheDir).
		Str("primary", primary.ID().String()).
		Str("primary_policy", primary.Policy().String()).
		Str("secondary", secondary.ID().String()).
		Str("secondary_policy", secondary.Policy().String()).
		Msg("Client configured")

	return &client{
		options:      o,
		orchestrator: orch,
		hooks:        newHooks(),
	}, nil
}

// primarySource and secondarySource document the concrete source types a
// client accepts through its options.
type (
	primarySource   = sources.Source[records.Benchmark]
	secondarySource = sources.Source[records.Capability]
)
