package models

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/agentstation/whichllm/internal/utils/ptr"
	"github.com/agentstation/whichllm/pkg/matcher"
	"github.com/agentstation/whichllm/pkg/sources"
)

func TestRowPreservesUnknown(t *testing.T) {
	m := Model{
		ID:          "aa-rocket",
		Name:        "Rocket 1",
		Slug:        "rocket-1",
		Creator:     "Acme",
		CreatorSlug: "acme",
		Benchmarks:  Benchmarks{Intelligence: ptr.Float64(41)},
		Match:       Match{Confidence: matcher.Unmatched},
	}

	row := ToRow(&m)
	assert.Nil(t, row.ToolCall)
	assert.Nil(t, row.InputModalities)
	assert.Nil(t, row.MatchedProviderID)
	assert.Nil(t, row.InputPriceSource)
	assert.Equal(t, "unmatched", row.MatchConfidence)

	back := FromRow(&row)
	if diff := cmp.Diff(m, back); diff != "" {
		t.Errorf("unexpected model after row conversion (-want +got):\n%s", diff)
	}
	assert.Equal(t, FlagUnknown, back.Capabilities.ToolCall)
	assert.Nil(t, back.Modalities.Input)
}

func TestRowPreservesKnownValues(t *testing.T) {
	m := Model{
		ID:          "aa-gpt-4o-mini",
		Name:        "GPT-4o mini",
		Slug:        "gpt-4o-mini-2024-07-18",
		Creator:     "OpenAI",
		CreatorSlug: "openai",
		ReleaseDate: ptr.String("2024-07-18"),
		Pricing: Pricing{
			Input:   ptr.Float64(0.15),
			Output:  ptr.Float64(0.6),
			Blended: ptr.Float64(0.26),
		},
		Capabilities: Capabilities{
			ToolCall:    FlagTrue,
			Reasoning:   FlagFalse,
			OpenWeights: FlagFalse,
		},
		Limits:     Limits{ContextWindow: ptr.Int64(128000)},
		Modalities: Modalities{Input: []string{"text", "image"}, Output: []string{}},
		Metadata:   Metadata{Family: ptr.String("gpt-4o")},
		Match: Match{
			Confidence: matcher.Fuzzy,
			ProviderID: "openai",
			ModelID:    "gpt-4o-mini",
		},
		FieldSources: map[string]sources.ID{
			FieldInputPrice:  sources.ArtificialAnalysisID,
			FieldOutputPrice: sources.ArtificialAnalysisID,
			FieldReleaseDate: sources.ModelsDevID,
		},
		Stale: Staleness{Secondary: true},
	}

	row := ToRow(&m)
	back := FromRow(&row)
	if diff := cmp.Diff(m, back); diff != "" {
		t.Errorf("unexpected model after row conversion (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{}, back.Modalities.Output)
	assert.True(t, back.Stale.Any())
	assert.Equal(t, "openai/gpt-4o-mini-2024-07-18", back.Key())
	assert.Equal(t, sources.ModelsDevID, back.Source(FieldReleaseDate))
}
