package fusion

import (
	"time"

	"github.com/google/uuid"

	"github.com/agentstation/whichllm/pkg/authority"
	"github.com/agentstation/whichllm/pkg/combiner"
	"github.com/agentstation/whichllm/pkg/matcher"
	"github.com/agentstation/whichllm/pkg/snapshot"
)

// Option configures an Orchestrator.
type Option func(*options)

type options struct {
	matcher   matcher.Matcher
	combiner  combiner.Combiner
	authority authority.Authority
	aliases   matcher.Aliases
	now       func() time.Time
	runID     func() string
}

func defaultOptions() *options {
	return &options{
		authority: authority.New(),
		aliases:   matcher.DefaultAliases(),
		now:       time.Now,
		runID:     uuid.NewString,
	}
}

// fingerprint identifies the alias and authority tables. A stored merged view
// built under a different fingerprint is rebuilt.
func (o *options) fingerprint() (string, error) {
	type settings struct {
		Aliases   matcher.Aliases   `json:"aliases"`
		Authority []authority.Field `json:"authority"`
	}
	return snapshot.Fingerprint([]settings{{
		Aliases:   o.aliases.Normalized(),
		Authority: o.authority.List(),
	}})
}

// WithMatcher replaces the record matcher.
func WithMatcher(m matcher.Matcher) Option {
	return func(o *options) {
		o.matcher = m
	}
}

// WithCombiner replaces the field combiner.
func WithCombiner(c combiner.Combiner) Option {
	return func(o *options) {
		o.combiner = c
	}
}

// WithAuthority sets the field authority table used by the default combiner
// and recorded in provenance.
func WithAuthority(a authority.Authority) Option {
	return func(o *options) {
		if a != nil {
			o.authority = a
		}
	}
}

// WithAliases sets the provider alias table used by the default matcher.
func WithAliases(aliases matcher.Aliases) Option {
	return func(o *options) {
		if aliases != nil {
			o.aliases = aliases
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithRunIDs overrides the run identifier generator.
func WithRunIDs(next func() string) Option {
	return func(o *options) {
		if next != nil {
			o.runID = next
		}
	}
}
