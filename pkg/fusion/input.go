package fusion

import (
	"context"
	"time"

	"github.com/agentstation/whichllm/internal/metrics"
	"github.com/agentstation/whichllm/pkg/errors"
	"github.com/agentstation/whichllm/pkg/logging"
	"github.com/agentstation/whichllm/pkg/provenance"
	"github.com/agentstation/whichllm/pkg/records"
	"github.com/agentstation/whichllm/pkg/snapshot"
	"github.com/agentstation/whichllm/pkg/sources"
)

// input is a resolved source snapshot. snap is nil only when the fetch
// failed and nothing was stored.
type input[T records.Record] struct {
	source  sources.ID
	snap    *snapshot.Snapshot[T]
	outcome string
	dropped int
	stale   bool
	warning error
}

// resolve returns the snapshot a run should use for one source: the stored
// one while the source policy considers it valid, otherwise a fresh fetch,
// falling back to the stored one when the fetch fails.
func resolve[T records.Record](ctx context.Context, src sources.Source[T], store *snapshot.Store[T], force bool, now time.Time) *input[T] {
	id := src.ID()
	logger := logging.FromContext(ctx).With().Str("source", id.String()).Logger()
	in := &input[T]{source: id}
	start := time.Now()

	prev, err := store.Load()
	switch {
	case err == nil:
	case errors.IsNotFound(err):
		logger.Debug().Msg("No stored snapshot")
	default:
		logger.Warn().Err(err).Msg("Discarding unreadable snapshot")
	}

	var fetchedAt time.Time
	if prev != nil {
		fetchedAt = prev.Meta.FetchedAt
	}
	if prev != nil && !src.Policy().NeedsRefresh(fetchedAt, force, now) {
		logger.Debug().
			Time("fetched_at", fetchedAt).
			Str("policy", src.Policy().String()).
			Msg("Reusing stored snapshot")
		in.snap = prev
		in.outcome = OutcomeReused
		in.dropped = prev.Meta.Dropped
		metrics.RecordFetch(id.String(), metrics.FetchReused, 0, 0)
		return in
	}

	batch, err := src.Fetch(ctx)
	if err != nil {
		in.warning = errors.WrapFetch(id.String(), err)
		in.stale = true
		if prev != nil {
			logger.Warn().Err(err).
				Time("fetched_at", prev.Meta.FetchedAt).
				Msg("Fetch failed, using stored snapshot")
			in.snap = prev
			in.outcome = OutcomeFallback
			in.dropped = prev.Meta.Dropped
			metrics.RecordFetch(id.String(), metrics.FetchFallback, time.Since(start), 0)
			return in
		}
		logger.Warn().Err(err).Msg("Fetch failed and no snapshot is stored")
		in.outcome = OutcomeMissing
		metrics.RecordFetch(id.String(), metrics.FetchFailed, time.Since(start), 0)
		return in
	}

	snap, err := snapshot.New(id.String(), batch.Records, now)
	if err != nil {
		// Unreachable for well-formed records; treat like a failed fetch.
		in.warning = errors.WrapFetch(id.String(), err)
		in.stale = prev != nil
		in.snap = prev
		in.outcome = OutcomeFallback
		if prev == nil {
			in.outcome = OutcomeMissing
		}
		return in
	}
	snap.Meta.Source = id
	snap.Meta.Dropped = batch.Dropped()

	if err := store.Save(snap); err != nil {
		logger.Warn().Err(err).Str("path", store.DataPath()).Msg("Could not store snapshot, continuing in memory")
		in.warning = err
	}

	logger.Info().
		Int("records", batch.Len()).
		Int("dropped", batch.Dropped()).
		Str("fingerprint", snap.Meta.Fingerprint).
		Msg("Fetched snapshot")

	in.snap = snap
	in.outcome = OutcomeFetched
	in.dropped = batch.Dropped()
	metrics.RecordFetch(id.String(), metrics.FetchFetched, time.Since(start), batch.Dropped())
	return in
}

// fingerprint returns the snapshot fingerprint, or the empty-collection
// fingerprint when there is no snapshot.
func (in *input[T]) fingerprint() string {
	if in.snap != nil {
		return in.snap.Meta.Fingerprint
	}
	fp, _ := snapshot.Fingerprint([]T{})
	return fp
}

func (in *input[T]) records() []T {
	if in.snap == nil {
		return nil
	}
	return in.snap.Records
}

func (in *input[T]) provenance() provenance.Input {
	p := provenance.Input{
		Source:      in.source,
		Fingerprint: in.fingerprint(),
		Records:     len(in.records()),
		Stale:       in.stale,
	}
	if in.snap != nil {
		p.FetchedAt = in.snap.Meta.FetchedAt
	}
	if in.warning != nil && in.stale {
		p.Warning = in.warning.Error()
	}
	return p
}

func (in *input[T]) result() SourceResult {
	p := in.provenance()
	return SourceResult{
		Source:      in.source,
		Outcome:     in.outcome,
		Records:     p.Records,
		Dropped:     in.dropped,
		Fingerprint: p.Fingerprint,
		FetchedAt:   p.FetchedAt,
		Stale:       in.stale,
	}
}
