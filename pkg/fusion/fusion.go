// Package fusion orchestrates a refresh: it resolves both source snapshots,
// decides whether the merged view is out of date, and rebuilds and commits it
// when it is.
//
// A run moves through the states Idle, FetchingPrimary and FetchingSecondary
// (concurrently), DecidingFusion, Fusing and Committed. The merged view is
// rebuilt only when no valid merged artifact exists, when its recorded input
// fingerprints or staleness differ from the current snapshots, or when the
// alias or authority tables changed. Otherwise the stored view is returned
// without matching or combining anything.
package fusion

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/agentstation/whichllm/internal/metrics"
	"github.com/agentstation/whichllm/pkg/authority"
	"github.com/agentstation/whichllm/pkg/combiner"
	"github.com/agentstation/whichllm/pkg/errors"
	"github.com/agentstation/whichllm/pkg/logging"
	"github.com/agentstation/whichllm/pkg/matcher"
	"github.com/agentstation/whichllm/pkg/models"
	"github.com/agentstation/whichllm/pkg/provenance"
	"github.com/agentstation/whichllm/pkg/records"
	"github.com/agentstation/whichllm/pkg/snapshot"
	"github.com/agentstation/whichllm/pkg/sources"
)

// MergedArtifact is the artifact name of the merged view.
const MergedArtifact = "llms"

// Orchestrator owns the raw snapshot stores and the merged store of one
// cache directory. Runs are serialized; concurrent identical triggers are
// coalesced into the run already in flight.
type Orchestrator struct {
	primary   sources.Source[records.Benchmark]
	secondary sources.Source[records.Capability]

	primaryStore   *snapshot.Store[records.Benchmark]
	secondaryStore *snapshot.Store[records.Capability]
	merged         *snapshot.Store[models.Row]

	matcher   matcher.Matcher
	combiner  combiner.Combiner
	authority authority.Authority
	config    string
	now       func() time.Time
	runID     func() string

	mu    sync.Mutex
	group singleflight.Group
	state atomic.Value
}

// New creates an orchestrator storing its artifacts in dir.
func New(dir string, primary sources.Source[records.Benchmark], secondary sources.Source[records.Capability], opts ...Option) (*Orchestrator, error) {
	if dir == "" {
		return nil, errors.NewValidationError("dir", dir, "cache directory is required")
	}
	if primary == nil {
		return nil, errors.NewValidationError("primary", nil, "primary source is required")
	}
	if secondary == nil {
		return nil, errors.NewValidationError("secondary", nil, "secondary source is required")
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if o.matcher == nil {
		o.matcher = matcher.New(
			matcher.WithAliases(o.aliases),
			matcher.WithSourceNames(primary.ID().String(), secondary.ID().String()),
		)
	}
	if o.combiner == nil {
		o.combiner = combiner.New(combiner.WithAuthority(o.authority))
	}
	config, err := o.fingerprint()
	if err != nil {
		return nil, err
	}

	orch := &Orchestrator{
		primary:        primary,
		secondary:      secondary,
		primaryStore:   snapshot.NewStore[records.Benchmark](dir, primary.ID().String()),
		secondaryStore: snapshot.NewStore[records.Capability](dir, secondary.ID().String()),
		merged:         snapshot.NewStore[models.Row](dir, MergedArtifact),
		matcher:        o.matcher,
		combiner:       o.combiner,
		authority:      o.authority,
		config:         config,
		now:            o.now,
		runID:          o.runID,
	}
	orch.state.Store(StateIdle)
	return orch, nil
}

// State returns the phase of the current run, or StateIdle.
func (o *Orchestrator) State() State {
	return o.state.Load().(State)
}

// Merged returns the merged store for read access.
func (o *Orchestrator) Merged() *snapshot.Store[models.Row] {
	return o.merged
}

// Run refreshes the snapshots according to their policies and rebuilds the
// merged view if either input or the configuration changed, or no merged view
// exists. force
// bypasses the primary's manual policy; it does not refetch a secondary
// snapshot that is still within its validity window.
//
// Fetch failures are reported as warnings on the result. Run returns an error
// only when the primary has neither a fresh nor a stored snapshot, or when the
// merged view could not be written; in both cases the previous merged view is
// left untouched.
func (o *Orchestrator) Run(ctx context.Context, force bool) (*Result, error) {
	key := fmt.Sprintf("run:force=%t", force)
	v, err, shared := o.group.Do(key, func() (any, error) {
		return o.run(ctx, force)
	})
	if shared {
		logging.FromContext(ctx).Debug().Bool("force", force).Msg("Joined in-flight fusion run")
	}
	if err != nil {
		return nil, err
	}
	return v.(*Result), nil
}

func (o *Orchestrator) run(ctx context.Context, force bool) (*Result, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	defer o.setState(ctx, StateIdle)

	start := time.Now()
	now := o.now().UTC()
	runID := o.runID()
	ctx = logging.WithRun(ctx, runID)
	logger := logging.FromContext(ctx)
	logger.Info().Bool("force", force).Msg("Starting fusion run")

	var (
		p *input[records.Benchmark]
		s *input[records.Capability]
		g errgroup.Group
	)
	g.Go(func() error {
		o.setState(ctx, StateFetchingPrimary)
		p = resolve(ctx, o.primary, o.primaryStore, force, now)
		return nil
	})
	g.Go(func() error {
		o.setState(ctx, StateFetchingSecondary)
		s = resolve(ctx, o.secondary, o.secondaryStore, false, now)
		return nil
	})
	_ = g.Wait()

	result := &Result{
		RunID:     runID,
		Primary:   p.result(),
		Secondary: s.result(),
	}
	for _, w := range []error{p.warning, s.warning} {
		if w != nil {
			result.Warnings = append(result.Warnings, w)
		}
	}

	o.setState(ctx, StateDecidingFusion)
	if p.snap == nil {
		err := p.warning
		if err == nil {
			err = errors.NewFetchError(p.source.String(), errors.ErrNotFound)
		}
		logger.Error().Err(err).Msg("No primary snapshot available, keeping previous merged view")
		metrics.RecordFusion(metrics.FusionFailed, time.Since(start))
		return nil, err
	}

	inP, inS := p.provenance(), s.provenance()
	if current := o.current(ctx, inP, inS); current != nil {
		result.Models = len(current.Records)
		result.Fusion = current.Meta.Fusion
		result.Matches = current.Meta.Fusion.Matches
		result.Duration = time.Since(start)
		logger.Info().
			Int("models", result.Models).
			Str("primary_fingerprint", inP.Fingerprint).
			Str("secondary_fingerprint", inS.Fingerprint).
			Msg("Inputs unchanged, merged view is current")
		metrics.RecordFusion(metrics.FusionSkipped, result.Duration)
		return result, nil
	}

	o.setState(ctx, StateFusing)
	rows, fusion := o.fuse(ctx, p, s, runID, now)

	snap, err := snapshot.New(MergedArtifact, rows, now)
	if err == nil {
		snap.Meta.Fusion = fusion
		err = o.merged.Save(snap)
	}
	if err != nil {
		werr := &errors.FusionWriteError{Path: o.merged.DataPath(), Err: err}
		logger.Error().Err(werr).Msg("Could not commit merged view")
		metrics.RecordFusion(metrics.FusionFailed, time.Since(start))
		return nil, werr
	}
	o.setState(ctx, StateCommitted)

	result.Fused = true
	result.Models = len(rows)
	result.Fusion = fusion
	result.Matches = fusion.Matches
	result.Duration = time.Since(start)

	logger.Info().
		Int("models", result.Models).
		Int("exact", fusion.Matches.Exact).
		Int("fuzzy", fusion.Matches.Fuzzy).
		Int("unmatched", fusion.Matches.Unmatched).
		Int("ambiguous", fusion.Matches.Ambiguous).
		Dur("duration", result.Duration).
		Msg("Committed merged view")
	metrics.RecordFusion(metrics.FusionFused, result.Duration)
	metrics.RecordMatches(fusion.Matches.Exact, fusion.Matches.Fuzzy, fusion.Matches.Unmatched, fusion.Matches.Ambiguous)
	metrics.SetMergedModels(result.Models)
	return result, nil
}

// current returns the stored merged view when it was produced from exactly
// these inputs under the current configuration and still loads cleanly.
func (o *Orchestrator) current(ctx context.Context, primary, secondary provenance.Input) *snapshot.Snapshot[models.Row] {
	logger := logging.FromContext(ctx)

	meta, err := o.merged.LoadMeta()
	if err != nil {
		if !errors.IsNotFound(err) {
			logger.Warn().Err(err).Msg("Merged view metadata unreadable, rebuilding")
		}
		return nil
	}
	if !meta.Fusion.Produces(primary, secondary, o.config) {
		logger.Debug().Msg("Inputs or configuration changed since last fusion")
		return nil
	}
	snap, err := o.merged.Load()
	if err != nil {
		logger.Warn().Err(err).Msg("Merged view unreadable, rebuilding")
		return nil
	}
	return snap
}

// fuse matches and combines the whole primary collection.
func (o *Orchestrator) fuse(ctx context.Context, p *input[records.Benchmark], s *input[records.Capability], runID string, now time.Time) ([]models.Row, *provenance.Fusion) {
	logger := logging.FromContext(ctx)

	results, stats := o.matcher.Match(p.records(), s.records())
	for _, amb := range stats.Ambiguities {
		logger.Debug().Err(amb).Msg("Ambiguous key")
	}

	tracker := provenance.NewTracker(true)
	stale := models.Staleness{Primary: p.stale, Secondary: s.stale}
	rows := make([]models.Row, 0, len(results))
	for _, r := range results {
		m := o.combiner.Combine(r)
		m.Stale = stale
		o.track(tracker, &m)
		rows = append(rows, models.ToRow(&m))
	}

	return rows, &provenance.Fusion{
		RunID:     runID,
		FusedAt:   now,
		Primary:   p.provenance(),
		Secondary: s.provenance(),
		Matches: provenance.Matches{
			Exact:     stats.Exact,
			Fuzzy:     stats.Fuzzy,
			Unmatched: stats.Unmatched,
			Ambiguous: stats.Ambiguous(),
		},
		Fields: tracker.Summary(),
		Config: o.config,
	}
}

// track records the winning source of every shared attribute of m.
func (o *Orchestrator) track(tracker provenance.Tracker, m *models.Model) {
	for _, field := range models.SharedFields() {
		src := m.Source(field)
		if src == "" {
			continue
		}
		ranked := o.authority.Rank(field)
		prov := provenance.Provenance{
			Source: src,
			Field:  field,
			Value:  sharedValue(m, field),
			Reason: "only source with a value",
		}
		for i, f := range ranked {
			if f.Source != src {
				continue
			}
			prov.Authority = f.Priority
			if i == 0 {
				prov.Reason = "highest authority"
			} else {
				prov.Reason = "higher authority had no value"
			}
			break
		}
		tracker.Track(m.Key(), field, prov)
	}
}

func sharedValue(m *models.Model, field string) any {
	switch field {
	case models.FieldInputPrice:
		if m.Pricing.Input != nil {
			return *m.Pricing.Input
		}
	case models.FieldOutputPrice:
		if m.Pricing.Output != nil {
			return *m.Pricing.Output
		}
	case models.FieldReleaseDate:
		if m.ReleaseDate != nil {
			return *m.ReleaseDate
		}
	}
	return nil
}

func (o *Orchestrator) setState(ctx context.Context, st State) {
	prev := o.state.Swap(st)
	logging.FromContext(ctx).Debug().
		Str("from", prev.(State).String()).
		Str("to", st.String()).
		Msg("Fusion state")
}
