// Package provenance tracks which source supplied each fused attribute and
// describes the inputs that produced a merged view.
package provenance

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/agentstation/whichllm/pkg/sources"
)

// Provenance records the origin of one attribute value.
type Provenance struct {
	Source    sources.ID `json:"source" yaml:"source"`       // Source that provided the value
	Field     string     `json:"field" yaml:"field"`         // Attribute name
	Value     any        `json:"value" yaml:"value"`         // The selected value
	Authority int        `json:"authority" yaml:"authority"` // Priority of the winning source
	Reason    string     `json:"reason" yaml:"reason"`       // Why this source was selected
}

// Summary counts, per attribute, how often each source won.
type Summary map[string]map[sources.ID]int

// Tracker records provenance during fusion. Implementations are safe for
// concurrent use.
type Tracker interface {
	// Track records provenance for a field
	Track(resourceID string, field string, p Provenance)

	// Summary aggregates winners per field
	Summary() Summary
}

// tracker is the default implementation.
type tracker struct {
	mu         sync.RWMutex
	provenance map[string][]Provenance // key is "resourceID:field"
	enabled    bool
}

// NewTracker creates a new provenance tracker. A disabled tracker accepts
// and discards all records.
func NewTracker(enabled bool) Tracker {
	return &tracker{
		provenance: make(map[string][]Provenance),
		enabled:    enabled,
	}
}

// Track records provenance for a field.
func (p *tracker) Track(resourceID string, field string, history Provenance) {
	if !p.enabled {
		return
	}
	if history.Field == "" {
		history.Field = field
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	key := makeKey(resourceID, field)
	p.provenance[key] = append(p.provenance[key], history)
}

// Summary aggregates the latest winner of every tracked field.
func (p *tracker) Summary() Summary {
	p.mu.RLock()
	defer p.mu.RUnlock()

	summary := make(Summary)
	for _, history := range p.provenance {
		if len(history) == 0 {
			continue
		}
		latest := history[len(history)-1]
		if summary[latest.Field] == nil {
			summary[latest.Field] = make(map[sources.ID]int)
		}
		summary[latest.Field][latest.Source]++
	}
	return summary
}

// makeKey creates a unique key for provenance tracking.
func makeKey(resourceID string, field string) string {
	return resourceID + ":" + field
}

// String renders the summary one field per line in a stable order.
func (s Summary) String() string {
	var sb strings.Builder
	for _, field := range slices.Sorted(maps.Keys(s)) {
		counts := s[field]
		parts := make([]string, 0, len(counts))
		for _, src := range slices.Sorted(maps.Keys(counts)) {
			parts = append(parts, fmt.Sprintf("%s=%d", src, counts[src]))
		}
		fmt.Fprintf(&sb, "%s: %s\n", field, strings.Join(parts, " "))
	}
	return sb.String()
}
