// Package matcher links primary records to secondary records.
//
// Matching is deterministic and rule based. For each primary record, in
// order, first hit wins:
//
//  1. Exact: the lowercase composite key, after applying the provider alias
//     table to the primary provider, equals a secondary composite key.
//  2. Fuzzy: within the same provider bucket, the model keys are equal once a
//     trailing date-version suffix is stripped from both sides, and exactly
//     one distinct secondary record qualifies.
//  3. Unmatched.
//
// Duplicate composite keys resolve to the first record seen in input order
// and are counted as ambiguities. The matcher performs no I/O and never
// mutates its inputs.
package matcher

import (
	"regexp"

	"github.com/agentstation/whichllm/pkg/errors"
	"github.com/agentstation/whichllm/pkg/records"
)

// dateSuffix matches -YYYYMMDD and -YYYY-MM-DD version suffixes.
var dateSuffix = regexp.MustCompile(`-(\d{8}|\d{4}-\d{2}-\d{2})$`)

// StripVersionSuffix removes a trailing date-version suffix from a model key.
func StripVersionSuffix(model string) string {
	return dateSuffix.ReplaceAllString(model, "")
}

// Result links one primary record to at most one secondary record.
type Result struct {
	Primary    records.Benchmark
	Secondary  *records.Capability
	Confidence Confidence
}

// Stats summarizes one matching pass.
type Stats struct {
	Exact     int `json:"exact" yaml:"exact"`
	Fuzzy     int `json:"fuzzy" yaml:"fuzzy"`
	Unmatched int `json:"unmatched" yaml:"unmatched"`

	// Ambiguities lists duplicate keys and multi-candidate fuzzy lookups.
	Ambiguities []*errors.AmbiguityError `json:"-" yaml:"-"`
}

// Ambiguous returns the number of ambiguities encountered.
func (s Stats) Ambiguous() int {
	return len(s.Ambiguities)
}

// Matcher links a primary collection to a secondary collection.
type Matcher interface {
	Match(primary []records.Benchmark, secondary []records.Capability) ([]Result, Stats)
}

// Option configures a matcher.
type Option func(*matcher)

// WithAliases replaces the provider alias table.
func WithAliases(aliases Aliases) Option {
	return func(m *matcher) {
		m.aliases = aliases.Normalized()
	}
}

// WithSourceNames sets the source names used in ambiguity reports.
func WithSourceNames(primary, secondary string) Option {
	return func(m *matcher) {
		m.primaryName = primary
		m.secondaryName = secondary
	}
}

type matcher struct {
	aliases       Aliases
	primaryName   string
	secondaryName string
}

// New creates a matcher using the default alias table unless overridden.
func New(opts ...Option) Matcher {
	m := &matcher{
		aliases:       DefaultAliases().Normalized(),
		primaryName:   "primary",
		secondaryName: "secondary",
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// entry is one indexed secondary record.
type entry struct {
	stripped string
	index    int
}

// index is the secondary collection keyed for lookup.
type index struct {
	exact   map[string]int
	buckets map[string][]entry
}

// Match implements Matcher.
func (m *matcher) Match(primary []records.Benchmark, secondary []records.Capability) ([]Result, Stats) {
	var stats Stats
	idx := m.buildIndex(secondary, &stats)
	m.countPrimaryDuplicates(primary, &stats)

	results := make([]Result, 0, len(primary))
	for _, p := range primary {
		result := Result{Primary: p, Confidence: Unmatched}

		id := p.Identity()
		provider := m.aliases.Resolve(id.ProviderKey)
		model := records.Normalize(id.ModelKey)
		key := provider + "/" + model

		if i, ok := idx.exact[key]; ok {
			result.Secondary = &secondary[i]
			result.Confidence = Exact
			stats.Exact++
			results = append(results, result)
			continue
		}

		if i, ok := m.fuzzy(idx.buckets[provider], key, StripVersionSuffix(model), &stats); ok {
			result.Secondary = &secondary[i]
			result.Confidence = Fuzzy
			stats.Fuzzy++
			results = append(results, result)
			continue
		}

		stats.Unmatched++
		results = append(results, result)
	}

	return results, stats
}

// buildIndex indexes the secondary collection by composite key and by
// provider. The first record seen for a composite key wins.
func (m *matcher) buildIndex(secondary []records.Capability, stats *Stats) index {
	idx := index{
		exact:   make(map[string]int, len(secondary)),
		buckets: make(map[string][]entry),
	}
	dupes := make(map[string]int)
	var order []string

	for i, s := range secondary {
		id := s.Identity()
		provider := records.Normalize(id.ProviderKey)
		model := records.Normalize(id.ModelKey)
		key := provider + "/" + model

		if _, seen := idx.exact[key]; seen {
			if dupes[key] == 0 {
				order = append(order, key)
				dupes[key] = 1
			}
			dupes[key]++
			continue
		}

		idx.exact[key] = i
		idx.buckets[provider] = append(idx.buckets[provider], entry{
			stripped: StripVersionSuffix(model),
			index:    i,
		})
	}

	for _, key := range order {
		stats.Ambiguities = append(stats.Ambiguities, &errors.AmbiguityError{
			Source: m.secondaryName,
			Key:    key,
			Count:  dupes[key],
		})
	}
	return idx
}

// countPrimaryDuplicates records duplicate composite keys on the primary side.
// Each duplicate is still matched on its own.
func (m *matcher) countPrimaryDuplicates(primary []records.Benchmark, stats *Stats) {
	counts := make(map[string]int, len(primary))
	var order []string
	for _, p := range primary {
		key := p.Identity().CompositeKey()
		if counts[key] == 1 {
			order = append(order, key)
		}
		counts[key]++
	}
	for _, key := range order {
		stats.Ambiguities = append(stats.Ambiguities, &errors.AmbiguityError{
			Source: m.primaryName,
			Key:    key,
			Count:  counts[key],
		})
	}
}

// fuzzy returns the single bucket entry whose stripped model key equals
// stripped. Buckets hold one entry per composite key, so more than one
// candidate is a genuine ambiguity and yields no match.
func (m *matcher) fuzzy(bucket []entry, key, stripped string, stats *Stats) (int, bool) {
	found := -1
	candidates := 0
	for _, e := range bucket {
		if e.stripped != stripped {
			continue
		}
		candidates++
		if found < 0 {
			found = e.index
		}
	}

	switch candidates {
	case 0:
		return 0, false
	case 1:
		return found, true
	default:
		stats.Ambiguities = append(stats.Ambiguities, &errors.AmbiguityError{
			Source: m.secondaryName,
			Key:    key,
			Count:  candidates,
		})
		return 0, false
	}
}
