package models

import (
	"github.com/agentstation/whichllm/internal/utils/ptr"
	"github.com/agentstation/whichllm/pkg/matcher"
	"github.com/agentstation/whichllm/pkg/records"
	"github.com/agentstation/whichllm/pkg/sources"
)

// Row is the flat columnar form of a Model. It is the only shape the query
// layer reads. Nullable columns encode unknown.
type Row struct {
	ID          string  `parquet:"name=id, type=BYTE_ARRAY, convertedtype=UTF8" json:"id"`
	Name        string  `parquet:"name=name, type=BYTE_ARRAY, convertedtype=UTF8" json:"name"`
	Slug        string  `parquet:"name=slug, type=BYTE_ARRAY, convertedtype=UTF8" json:"slug"`
	Creator     string  `parquet:"name=creator, type=BYTE_ARRAY, convertedtype=UTF8" json:"creator"`
	CreatorSlug string  `parquet:"name=creator_slug, type=BYTE_ARRAY, convertedtype=UTF8" json:"creator_slug"`
	ReleaseDate *string `parquet:"name=release_date, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL" json:"release_date"`

	Intelligence  *float64 `parquet:"name=intelligence, type=DOUBLE, repetitiontype=OPTIONAL" json:"intelligence"`
	Coding        *float64 `parquet:"name=coding, type=DOUBLE, repetitiontype=OPTIONAL" json:"coding"`
	Math          *float64 `parquet:"name=math, type=DOUBLE, repetitiontype=OPTIONAL" json:"math"`
	MMLUPro       *float64 `parquet:"name=mmlu_pro, type=DOUBLE, repetitiontype=OPTIONAL" json:"mmlu_pro"`
	GPQA          *float64 `parquet:"name=gpqa, type=DOUBLE, repetitiontype=OPTIONAL" json:"gpqa"`
	HLE           *float64 `parquet:"name=hle, type=DOUBLE, repetitiontype=OPTIONAL" json:"hle"`
	LiveCodeBench *float64 `parquet:"name=livecodebench, type=DOUBLE, repetitiontype=OPTIONAL" json:"livecodebench"`
	SciCode       *float64 `parquet:"name=scicode, type=DOUBLE, repetitiontype=OPTIONAL" json:"scicode"`
	Math500       *float64 `parquet:"name=math_500, type=DOUBLE, repetitiontype=OPTIONAL" json:"math_500"`
	AIME          *float64 `parquet:"name=aime, type=DOUBLE, repetitiontype=OPTIONAL" json:"aime"`

	InputPrice  *float64 `parquet:"name=input_price, type=DOUBLE, repetitiontype=OPTIONAL" json:"input_price"`
	OutputPrice *float64 `parquet:"name=output_price, type=DOUBLE, repetitiontype=OPTIONAL" json:"output_price"`
	Price       *float64 `parquet:"name=price, type=DOUBLE, repetitiontype=OPTIONAL" json:"price"`

	TPS     *float64 `parquet:"name=tps, type=DOUBLE, repetitiontype=OPTIONAL" json:"tps"`
	Latency *float64 `parquet:"name=latency, type=DOUBLE, repetitiontype=OPTIONAL" json:"latency"`

	Reasoning        *bool `parquet:"name=reasoning, type=BOOLEAN, repetitiontype=OPTIONAL" json:"reasoning"`
	ToolCall         *bool `parquet:"name=tool_call, type=BOOLEAN, repetitiontype=OPTIONAL" json:"tool_call"`
	StructuredOutput *bool `parquet:"name=structured_output, type=BOOLEAN, repetitiontype=OPTIONAL" json:"structured_output"`
	Attachment       *bool `parquet:"name=attachment, type=BOOLEAN, repetitiontype=OPTIONAL" json:"attachment"`
	Temperature      *bool `parquet:"name=temperature, type=BOOLEAN, repetitiontype=OPTIONAL" json:"temperature"`
	OpenWeights      *bool `parquet:"name=open_weights, type=BOOLEAN, repetitiontype=OPTIONAL" json:"open_weights"`

	ContextWindow   *int64 `parquet:"name=context_window, type=INT64, repetitiontype=OPTIONAL" json:"context_window"`
	MaxInputTokens  *int64 `parquet:"name=max_input_tokens, type=INT64, repetitiontype=OPTIONAL" json:"max_input_tokens"`
	MaxOutputTokens *int64 `parquet:"name=max_output_tokens, type=INT64, repetitiontype=OPTIONAL" json:"max_output_tokens"`

	InputModalities  *string `parquet:"name=input_modalities, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL" json:"input_modalities"`
	OutputModalities *string `parquet:"name=output_modalities, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL" json:"output_modalities"`

	Family          *string `parquet:"name=family, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL" json:"family"`
	KnowledgeCutoff *string `parquet:"name=knowledge_cutoff, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL" json:"knowledge_cutoff"`
	LastUpdated     *string `parquet:"name=last_updated, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL" json:"last_updated"`
	Status          *string `parquet:"name=status, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL" json:"status"`

	MatchConfidence   string  `parquet:"name=match_confidence, type=BYTE_ARRAY, convertedtype=UTF8" json:"match_confidence"`
	MatchedProviderID *string `parquet:"name=matched_provider_id, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL" json:"matched_provider_id"`
	MatchedModelID    *string `parquet:"name=matched_model_id, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL" json:"matched_model_id"`

	InputPriceSource  *string `parquet:"name=input_price_source, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL" json:"input_price_source"`
	OutputPriceSource *string `parquet:"name=output_price_source, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL" json:"output_price_source"`
	ReleaseDateSource *string `parquet:"name=release_date_source, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL" json:"release_date_source"`

	PrimaryStale   bool `parquet:"name=primary_stale, type=BOOLEAN" json:"primary_stale"`
	SecondaryStale bool `parquet:"name=secondary_stale, type=BOOLEAN" json:"secondary_stale"`
}

// Identity returns the creator slug and model slug.
func (r Row) Identity() records.Identity {
	return records.Identity{ProviderKey: r.CreatorSlug, ModelKey: r.Slug}
}

// ToRow flattens a Model into its columnar form.
func ToRow(m *Model) Row {
	return Row{
		ID:          m.ID,
		Name:        m.Name,
		Slug:        m.Slug,
		Creator:     m.Creator,
		CreatorSlug: m.CreatorSlug,
		ReleaseDate: m.ReleaseDate,

		Intelligence:  m.Benchmarks.Intelligence,
		Coding:        m.Benchmarks.Coding,
		Math:          m.Benchmarks.Math,
		MMLUPro:       m.Benchmarks.MMLUPro,
		GPQA:          m.Benchmarks.GPQA,
		HLE:           m.Benchmarks.HLE,
		LiveCodeBench: m.Benchmarks.LiveCodeBench,
		SciCode:       m.Benchmarks.SciCode,
		Math500:       m.Benchmarks.Math500,
		AIME:          m.Benchmarks.AIME,

		InputPrice:  m.Pricing.Input,
		OutputPrice: m.Pricing.Output,
		Price:       m.Pricing.Blended,

		TPS:     m.Performance.TokensPerSecond,
		Latency: m.Performance.TimeToFirstToken,

		Reasoning:        m.Capabilities.Reasoning.Ptr(),
		ToolCall:         m.Capabilities.ToolCall.Ptr(),
		StructuredOutput: m.Capabilities.StructuredOutput.Ptr(),
		Attachment:       m.Capabilities.Attachment.Ptr(),
		Temperature:      m.Capabilities.Temperature.Ptr(),
		OpenWeights:      m.Capabilities.OpenWeights.Ptr(),

		ContextWindow:   m.Limits.ContextWindow,
		MaxInputTokens:  m.Limits.MaxInputTokens,
		MaxOutputTokens: m.Limits.MaxOutputTokens,

		InputModalities:  records.JoinList(m.Modalities.Input),
		OutputModalities: records.JoinList(m.Modalities.Output),

		Family:          m.Metadata.Family,
		KnowledgeCutoff: m.Metadata.KnowledgeCutoff,
		LastUpdated:     m.Metadata.LastUpdated,
		Status:          m.Metadata.Status,

		MatchConfidence:   m.Match.Confidence.String(),
		MatchedProviderID: ptr.NonEmpty(m.Match.ProviderID),
		MatchedModelID:    ptr.NonEmpty(m.Match.ModelID),

		InputPriceSource:  ptr.NonEmpty(string(m.Source(FieldInputPrice))),
		OutputPriceSource: ptr.NonEmpty(string(m.Source(FieldOutputPrice))),
		ReleaseDateSource: ptr.NonEmpty(string(m.Source(FieldReleaseDate))),

		PrimaryStale:   m.Stale.Primary,
		SecondaryStale: m.Stale.Secondary,
	}
}

// FromRow rebuilds a Model from its columnar form.
func FromRow(r *Row) Model {
	m := Model{
		ID:          r.ID,
		Name:        r.Name,
		Slug:        r.Slug,
		Creator:     r.Creator,
		CreatorSlug: r.CreatorSlug,
		ReleaseDate: r.ReleaseDate,
		Benchmarks: Benchmarks{
			Intelligence:  r.Intelligence,
			Coding:        r.Coding,
			Math:          r.Math,
			MMLUPro:       r.MMLUPro,
			GPQA:          r.GPQA,
			HLE:           r.HLE,
			LiveCodeBench: r.LiveCodeBench,
			SciCode:       r.SciCode,
			Math500:       r.Math500,
			AIME:          r.AIME,
		},
		Performance: Performance{
			TokensPerSecond:  r.TPS,
			TimeToFirstToken: r.Latency,
		},
		Pricing: Pricing{
			Input:   r.InputPrice,
			Output:  r.OutputPrice,
			Blended: r.Price,
		},
		Capabilities: Capabilities{
			Reasoning:        FlagFrom(r.Reasoning),
			ToolCall:         FlagFrom(r.ToolCall),
			StructuredOutput: FlagFrom(r.StructuredOutput),
			Attachment:       FlagFrom(r.Attachment),
			Temperature:      FlagFrom(r.Temperature),
			OpenWeights:      FlagFrom(r.OpenWeights),
		},
		Limits: Limits{
			ContextWindow:   r.ContextWindow,
			MaxInputTokens:  r.MaxInputTokens,
			MaxOutputTokens: r.MaxOutputTokens,
		},
		Modalities: Modalities{
			Input:  records.SplitList(r.InputModalities),
			Output: records.SplitList(r.OutputModalities),
		},
		Metadata: Metadata{
			Family:          r.Family,
			KnowledgeCutoff: r.KnowledgeCutoff,
			LastUpdated:     r.LastUpdated,
			Status:          r.Status,
		},
		Match: Match{
			Confidence: matcher.ParseConfidence(r.MatchConfidence),
			ProviderID: deref(r.MatchedProviderID),
			ModelID:    deref(r.MatchedModelID),
		},
		Stale: Staleness{
			Primary:   r.PrimaryStale,
			Secondary: r.SecondaryStale,
		},
	}

	fieldSources := map[string]*string{
		FieldInputPrice:  r.InputPriceSource,
		FieldOutputPrice: r.OutputPriceSource,
		FieldReleaseDate: r.ReleaseDateSource,
	}
	for field, src := range fieldSources {
		if src == nil {
			continue
		}
		if m.FieldSources == nil {
			m.FieldSources = make(map[string]sources.ID, len(fieldSources))
		}
		m.FieldSources[field] = sources.ID(*src)
	}

	return m
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
