package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/whichllm/internal/pattern"
	"github.com/agentstation/whichllm/internal/utils/ptr"
	"github.com/agentstation/whichllm/pkg/matcher"
	"github.com/agentstation/whichllm/pkg/models"
)

func fixture() []models.Model {
	return []models.Model{
		{
			Name: "GPT-4o mini", Slug: "gpt-4o-mini", Creator: "OpenAI", CreatorSlug: "openai",
			Benchmarks:   models.Benchmarks{Intelligence: ptr.Float64(36)},
			Pricing:      models.Pricing{Input: ptr.Float64(0.15)},
			Capabilities: models.Capabilities{ToolCall: models.FlagTrue, Reasoning: models.FlagFalse},
			Limits:       models.Limits{ContextWindow: ptr.Int64(128000)},
			Modalities:   models.Modalities{Input: []string{"text", "image"}},
			Match:        models.Match{Confidence: matcher.Fuzzy},
		},
		{
			Name: "o3", Slug: "o3", Creator: "OpenAI", CreatorSlug: "openai",
			Benchmarks:   models.Benchmarks{Intelligence: ptr.Float64(67)},
			Pricing:      models.Pricing{Input: ptr.Float64(2)},
			Capabilities: models.Capabilities{ToolCall: models.FlagTrue, Reasoning: models.FlagTrue},
			Limits:       models.Limits{ContextWindow: ptr.Int64(200000)},
			Match:        models.Match{Confidence: matcher.Exact},
		},
		{
			Name: "Mystery", Slug: "mystery", Creator: "Nobody", CreatorSlug: "nobody",
			Match: models.Match{Confidence: matcher.Unmatched},
		},
	}
}

func slugs(list []models.Model) []string {
	out := make([]string, 0, len(list))
	for _, m := range list {
		out = append(out, m.Slug)
	}
	return out
}

func TestApply(t *testing.T) {
	glob, err := pattern.New(pattern.Glob, "openai/*")
	require.NoError(t, err)

	tests := []struct {
		name   string
		filter *ModelFilter
		want   []string
	}{
		{name: "nil filter", filter: nil, want: []string{"gpt-4o-mini", "o3", "mystery"}},
		{name: "empty filter", filter: &ModelFilter{}, want: []string{"gpt-4o-mini", "o3", "mystery"}},
		{name: "pattern", filter: &ModelFilter{Pattern: glob}, want: []string{"gpt-4o-mini", "o3"}},
		{name: "creator by name", filter: &ModelFilter{Creator: "nobody"}, want: []string{"mystery"}},
		{name: "reasoning excludes false and unknown", filter: &ModelFilter{Capability: "reasoning"}, want: []string{"o3"}},
		{name: "tool alias", filter: &ModelFilter{Capability: "tools"}, want: []string{"gpt-4o-mini", "o3"}},
		{name: "vision", filter: &ModelFilter{Capability: "vision"}, want: []string{"gpt-4o-mini"}},
		{name: "confidence", filter: &ModelFilter{Confidence: matcher.Unmatched}, want: []string{"mystery"}},
		{name: "min context", filter: &ModelFilter{MinContext: 150000}, want: []string{"o3"}},
		{name: "max price keeps unknown", filter: &ModelFilter{MaxPrice: 1}, want: []string{"gpt-4o-mini", "mystery"}},
		{name: "min intelligence", filter: &ModelFilter{MinIntelligence: 50}, want: []string{"o3"}},
		{name: "search", filter: &ModelFilter{Search: "MINI"}, want: []string{"gpt-4o-mini"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, slugs(tt.filter.Apply(fixture())))
		})
	}
}

func TestValidate(t *testing.T) {
	assert.NoError(t, (*ModelFilter)(nil).Validate())
	assert.NoError(t, (&ModelFilter{Capability: "tool-calls", Confidence: matcher.Fuzzy}).Validate())
	assert.Error(t, (&ModelFilter{Capability: "telepathy"}).Validate())
	assert.Error(t, (&ModelFilter{Confidence: "maybe"}).Validate())
}

func TestByNames(t *testing.T) {
	list := fixture()

	got := ByNames(list, []string{"o3", "GPT", "gpt-4o"})
	require.Len(t, got, 2)
	assert.Equal(t, "o3", got[0].Slug)
	assert.Equal(t, "gpt-4o-mini", got[1].Slug, "duplicates collapse to the first hit")

	assert.Empty(t, ByNames(list, []string{"claude"}))
	assert.Empty(t, ByNames(list, nil))
}
