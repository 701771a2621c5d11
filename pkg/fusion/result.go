package fusion

import (
	"time"

	"github.com/agentstation/whichllm/pkg/provenance"
	"github.com/agentstation/whichllm/pkg/sources"
)

// Fetch outcomes for one source.
const (
	// OutcomeFetched means a new snapshot was downloaded.
	OutcomeFetched = "fetched"
	// OutcomeReused means the stored snapshot was still valid.
	OutcomeReused = "reused"
	// OutcomeFallback means the fetch failed and the stored snapshot was used.
	OutcomeFallback = "fallback"
	// OutcomeMissing means the fetch failed and no snapshot existed.
	OutcomeMissing = "missing"
)

// SourceResult describes how one source snapshot was resolved.
type SourceResult struct {
	Source      sources.ID `json:"source"`
	Outcome     string     `json:"outcome"`
	Records     int        `json:"records"`
	Dropped     int        `json:"dropped"`
	Fingerprint string     `json:"fingerprint"`
	FetchedAt   time.Time  `json:"fetched_at"`
	Stale       bool       `json:"stale"`
}

// Result summarizes one orchestrator run. Results may be shared between
// coalesced callers and must be treated as read-only.
type Result struct {
	RunID     string             `json:"run_id"`
	Fused     bool               `json:"fused"`
	Models    int                `json:"models"`
	Primary   SourceResult       `json:"primary"`
	Secondary SourceResult       `json:"secondary"`
	Matches   provenance.Matches `json:"matches"`
	Fusion    *provenance.Fusion `json:"fusion,omitempty"`
	Duration  time.Duration      `json:"duration"`
	// Warnings holds non-fatal failures such as fetch errors that were
	// recovered by falling back to a stored snapshot.
	Warnings []error `json:"-"`
}

// HasWarnings reports whether the run recovered from any failure.
func (r *Result) HasWarnings() bool {
	return r != nil && len(r.Warnings) > 0
}

// Stale reports whether either input was served from an outdated snapshot.
func (r *Result) Stale() bool {
	return r != nil && (r.Primary.Stale || r.Secondary.Stale)
}
