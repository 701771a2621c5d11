package provenance

import (
	"time"

	"github.com/agentstation/whichllm/pkg/sources"
)

// Input describes one source snapshot consumed by a fusion run.
type Input struct {
	Source      sources.ID `json:"source" yaml:"source"`
	Fingerprint string     `json:"fingerprint" yaml:"fingerprint"`
	FetchedAt   time.Time  `json:"fetched_at" yaml:"fetched_at"`
	Records     int        `json:"records" yaml:"records"`
	// Stale is set when the latest fetch failed and an older snapshot was used.
	Stale bool `json:"stale" yaml:"stale"`
	// Warning carries the fetch failure behind a stale input.
	Warning string `json:"warning,omitempty" yaml:"warning,omitempty"`
}

// Matches counts match outcomes for a fusion run.
type Matches struct {
	Exact     int `json:"exact" yaml:"exact"`
	Fuzzy     int `json:"fuzzy" yaml:"fuzzy"`
	Unmatched int `json:"unmatched" yaml:"unmatched"`
	Ambiguous int `json:"ambiguous" yaml:"ambiguous"`
}

// Fusion names the inputs that produced a merged view.
type Fusion struct {
	RunID     string    `json:"run_id" yaml:"run_id"`
	FusedAt   time.Time `json:"fused_at" yaml:"fused_at"`
	Primary   Input     `json:"primary" yaml:"primary"`
	Secondary Input     `json:"secondary" yaml:"secondary"`
	Matches   Matches   `json:"matches" yaml:"matches"`
	Fields    Summary   `json:"fields,omitempty" yaml:"fields,omitempty"`
	// Config fingerprints the alias and authority tables the run used.
	Config string `json:"config,omitempty" yaml:"config,omitempty"`
}

// Produces reports whether the fusion was computed from these two inputs
// under this configuration. Inputs are compared by fingerprint and by
// staleness, so a source recovering with unchanged content still counts as a
// different input.
func (f *Fusion) Produces(primary, secondary Input, config string) bool {
	if f == nil {
		return false
	}
	return sameInput(f.Primary, primary) && sameInput(f.Secondary, secondary) && f.Config == config
}

func sameInput(a, b Input) bool {
	return a.Fingerprint == b.Fingerprint && a.Stale == b.Stale
}
