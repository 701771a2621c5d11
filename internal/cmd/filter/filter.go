// Package filter narrows merged model lists for the list command.
package filter

import (
	"fmt"
	"slices"
	"strings"

	"github.com/agentstation/whichllm/internal/pattern"
	"github.com/agentstation/whichllm/pkg/matcher"
	"github.com/agentstation/whichllm/pkg/models"
)

// Capabilities lists the names accepted by ModelFilter.Capability.
func Capabilities() []string {
	return []string{"reasoning", "tool_call", "structured_output", "attachment", "temperature", "open_weights", "vision"}
}

// ModelFilter applies filters to model lists. Capability filters only
// accept models where the capability is known to be present; unknown is
// never treated as a match.
type ModelFilter struct {
	Pattern         pattern.Matcher
	Creator         string
	Capability      string
	Confidence      matcher.Confidence
	MinContext      int64
	MaxPrice        float64
	MinIntelligence float64
	Search          string
}

// Validate checks the capability and confidence names.
func (f *ModelFilter) Validate() error {
	if f == nil {
		return nil
	}
	if f.Capability != "" && capability(f.Capability) == "" {
		return fmt.Errorf("unknown capability %q: must be one of: %s", f.Capability, strings.Join(Capabilities(), ", "))
	}
	if f.Confidence != "" && matcher.ParseConfidence(string(f.Confidence)) != f.Confidence {
		return fmt.Errorf("unknown match confidence %q: must be one of: exact, fuzzy, unmatched", f.Confidence)
	}
	return nil
}

// Apply filters a slice of models, preserving order.
func (f *ModelFilter) Apply(list []models.Model) []models.Model {
	if f == nil || f.isEmpty() {
		return list
	}

	var filtered []models.Model
	for _, m := range list {
		if f.matches(&m) {
			filtered = append(filtered, m)
		}
	}
	return filtered
}

func (f *ModelFilter) isEmpty() bool {
	return f.Pattern == nil &&
		f.Creator == "" &&
		f.Capability == "" &&
		f.Confidence == "" &&
		f.MinContext == 0 &&
		f.MaxPrice == 0 &&
		f.MinIntelligence == 0 &&
		f.Search == ""
}

func (f *ModelFilter) matches(m *models.Model) bool {
	if f.Pattern != nil && !f.Pattern.MatchAny(m.Key(), m.Slug) {
		return false
	}
	if f.Creator != "" && !strings.EqualFold(m.CreatorSlug, f.Creator) && !strings.EqualFold(m.Creator, f.Creator) {
		return false
	}
	if f.Capability != "" && !hasCapability(m, capability(f.Capability)) {
		return false
	}
	if f.Confidence != "" && m.Match.Confidence != f.Confidence {
		return false
	}
	if f.MinContext > 0 && (m.Limits.ContextWindow == nil || *m.Limits.ContextWindow < f.MinContext) {
		return false
	}
	// Models without a known input price are kept.
	if f.MaxPrice > 0 && m.Pricing.Input != nil && *m.Pricing.Input > f.MaxPrice {
		return false
	}
	if f.MinIntelligence > 0 && (m.Benchmarks.Intelligence == nil || *m.Benchmarks.Intelligence < f.MinIntelligence) {
		return false
	}
	if f.Search != "" && !matchesSearch(m, strings.ToLower(f.Search)) {
		return false
	}
	return true
}

// capability resolves a capability name or alias, or returns "".
func capability(name string) string {
	switch strings.ToLower(strings.ReplaceAll(name, "-", "_")) {
	case "reasoning":
		return "reasoning"
	case "tool_call", "tool_calls", "tools":
		return "tool_call"
	case "structured_output", "json":
		return "structured_output"
	case "attachment", "attachments":
		return "attachment"
	case "temperature":
		return "temperature"
	case "open_weights", "open":
		return "open_weights"
	case "vision", "image":
		return "vision"
	}
	return ""
}

func hasCapability(m *models.Model, name string) bool {
	switch name {
	case "reasoning":
		return m.Capabilities.Reasoning == models.FlagTrue
	case "tool_call":
		return m.Capabilities.ToolCall == models.FlagTrue
	case "structured_output":
		return m.Capabilities.StructuredOutput == models.FlagTrue
	case "attachment":
		return m.Capabilities.Attachment == models.FlagTrue
	case "temperature":
		return m.Capabilities.Temperature == models.FlagTrue
	case "open_weights":
		return m.Capabilities.OpenWeights == models.FlagTrue
	case "vision":
		return slices.Contains(m.Modalities.Input, "image")
	}
	return false
}

func matchesSearch(m *models.Model, search string) bool {
	for _, field := range []string{m.ID, m.Name, m.Slug, m.Creator, m.CreatorSlug} {
		if strings.Contains(strings.ToLower(field), search) {
			return true
		}
	}
	return m.Metadata.Family != nil && strings.Contains(strings.ToLower(*m.Metadata.Family), search)
}

// ByNames returns the models whose slug contains any of the searches, or
// whose name contains one case-insensitively. Results keep search order and
// each model appears once.
func ByNames(list []models.Model, searches []string) []models.Model {
	var out []models.Model
	seen := make(map[string]bool)
	for _, search := range searches {
		lower := strings.ToLower(search)
		for _, m := range list {
			if !strings.Contains(m.Slug, search) && !strings.Contains(strings.ToLower(m.Name), lower) {
				continue
			}
			if key := m.Key(); !seen[key] {
				seen[key] = true
				out = append(out, m)
			}
		}
	}
	return out
}
