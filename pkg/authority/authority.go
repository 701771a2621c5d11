// Package authority decides which source is authoritative for each fused
// attribute.
package authority

import (
	"path/filepath"
	"slices"

	"github.com/agentstation/whichllm/pkg/sources"
)

// Authority determines which source is authoritative for each field
type Authority interface {
	// Find returns the highest priority authority for a field
	Find(fieldPath string) *Field

	// Rank returns every authority for a field, highest priority first
	Rank(fieldPath string) []Field

	// List returns all configured authorities
	List() []Field
}

// Field defines source priority for a specific field
type Field struct {
	Path     string     `json:"path" yaml:"path"`         // e.g., "input_price", "capabilities.*"
	Source   sources.ID `json:"source" yaml:"source"`     // Which source is authoritative
	Priority int        `json:"priority" yaml:"priority"` // Priority (higher = more authoritative)
}

// authorities provides field authorities
type authorities struct {
	fields []Field
}

// New creates an Authority with the standard field table
func New() Authority {
	return &authorities{fields: Defaults()}
}

// NewWith creates an Authority from a custom field table
func NewWith(fields []Field) Authority {
	return &authorities{fields: slices.Clone(fields)}
}

// Find returns the authority configuration for a specific field
func (a *authorities) Find(fieldPath string) *Field {
	return ByField(fieldPath, a.fields)
}

// Rank returns matching authorities ordered by priority, then pattern
// specificity, then table order.
func (a *authorities) Rank(fieldPath string) []Field {
	var matched []Field
	for _, f := range a.fields {
		if MatchesPattern(fieldPath, f.Path) {
			matched = append(matched, f)
		}
	}
	slices.SortStableFunc(matched, func(x, y Field) int {
		if x.Priority != y.Priority {
			return y.Priority - x.Priority
		}
		return len(y.Path) - len(x.Path)
	})
	return matched
}

// List returns all authorities
func (a *authorities) List() []Field {
	return slices.Clone(a.fields)
}

// ByField returns the highest priority authority for a given field path
func ByField(fieldPath string, authorities []Field) *Field {
	var bestMatch *Field
	var bestPriority int
	var bestMatchLength int

	for i, auth := range authorities {
		if MatchesPattern(fieldPath, auth.Path) {
			// Prioritize by: 1) priority, 2) pattern specificity (length), 3) order
			patternLength := len(auth.Path)
			if bestMatch == nil || auth.Priority > bestPriority ||
				(auth.Priority == bestPriority && patternLength > bestMatchLength) {
				bestMatch = &authorities[i]
				bestPriority = auth.Priority
				bestMatchLength = patternLength
			}
		}
	}

	return bestMatch
}

// MatchesPattern checks if a field path matches a pattern (supports * wildcards)
func MatchesPattern(fieldPath, pattern string) bool {
	if fieldPath == pattern {
		return true
	}

	// Handle simple wildcard at the end
	if len(pattern) > 0 && pattern[len(pattern)-1] == '*' {
		prefix := pattern[:len(pattern)-1]
		return len(fieldPath) >= len(prefix) && fieldPath[:len(prefix)] == prefix
	}

	matched, err := filepath.Match(pattern, fieldPath)
	if err != nil {
		return false
	}
	return matched
}

// Defaults returns the standard field authorities.
func Defaults() []Field {
	return []Field{
		// Benchmarks, serving performance and blended price exist only on
		// the benchmark source.
		{Path: "benchmarks.*", Source: sources.ArtificialAnalysisID, Priority: 100},
		{Path: "performance.*", Source: sources.ArtificialAnalysisID, Priority: 100},
		{Path: "price", Source: sources.ArtificialAnalysisID, Priority: 100},

		// Shared attributes: benchmark source first, models.dev as fallback
		{Path: "input_price", Source: sources.ArtificialAnalysisID, Priority: 100},
		{Path: "input_price", Source: sources.ModelsDevID, Priority: 90},
		{Path: "output_price", Source: sources.ArtificialAnalysisID, Priority: 100},
		{Path: "output_price", Source: sources.ModelsDevID, Priority: 90},
		{Path: "release_date", Source: sources.ArtificialAnalysisID, Priority: 100},
		{Path: "release_date", Source: sources.ModelsDevID, Priority: 90},

		// Capabilities, limits, modalities and metadata exist only on models.dev
		{Path: "capabilities.*", Source: sources.ModelsDevID, Priority: 100},
		{Path: "limits.*", Source: sources.ModelsDevID, Priority: 100},
		{Path: "modalities.*", Source: sources.ModelsDevID, Priority: 100},
		{Path: "metadata.*", Source: sources.ModelsDevID, Priority: 100},
	}
}
