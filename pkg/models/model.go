// Package models defines the fused, user-visible model entity and its flat
// columnar representation.
//
// Attributes contributed only by the secondary source are optional: a nil
// pointer, a nil slice or FlagUnknown means neither source reported the
// value. Defaults such as zero or "" are never substituted for unknown data.
package models

import (
	"github.com/agentstation/whichllm/pkg/matcher"
	"github.com/agentstation/whichllm/pkg/records"
	"github.com/agentstation/whichllm/pkg/sources"
)

// Attribute names for fields both sources can supply.
const (
	FieldInputPrice  = "input_price"
	FieldOutputPrice = "output_price"
	FieldReleaseDate = "release_date"
)

// SharedFields lists the attributes both sources can supply, in column order.
func SharedFields() []string {
	return []string{FieldInputPrice, FieldOutputPrice, FieldReleaseDate}
}

// Model is one fused model entity.
type Model struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Creator     string  `json:"creator"`
	CreatorSlug string  `json:"creator_slug"`
	ReleaseDate *string `json:"release_date,omitempty"`

	Benchmarks   Benchmarks   `json:"benchmarks"`
	Performance  Performance  `json:"performance"`
	Pricing      Pricing      `json:"pricing"`
	Capabilities Capabilities `json:"capabilities"`
	Limits       Limits       `json:"limits"`
	Modalities   Modalities   `json:"modalities"`
	Metadata     Metadata     `json:"metadata"`

	Match        Match                 `json:"match"`
	FieldSources map[string]sources.ID `json:"field_sources,omitempty"`
	Stale        Staleness             `json:"stale"`
}

// Benchmarks holds evaluation scores.
type Benchmarks struct {
	Intelligence  *float64 `json:"intelligence,omitempty"`
	Coding        *float64 `json:"coding,omitempty"`
	Math          *float64 `json:"math,omitempty"`
	MMLUPro       *float64 `json:"mmlu_pro,omitempty"`
	GPQA          *float64 `json:"gpqa,omitempty"`
	HLE           *float64 `json:"hle,omitempty"`
	LiveCodeBench *float64 `json:"livecodebench,omitempty"`
	SciCode       *float64 `json:"scicode,omitempty"`
	Math500       *float64 `json:"math_500,omitempty"`
	AIME          *float64 `json:"aime,omitempty"`
}

// Performance holds measured serving speed.
type Performance struct {
	TokensPerSecond  *float64 `json:"tps,omitempty"`
	TimeToFirstToken *float64 `json:"latency,omitempty"`
}

// Pricing holds USD prices per million tokens.
type Pricing struct {
	Input   *float64 `json:"input,omitempty"`
	Output  *float64 `json:"output,omitempty"`
	Blended *float64 `json:"blended,omitempty"`
}

// Capabilities holds tri-state feature flags.
type Capabilities struct {
	Reasoning        Flag `json:"reasoning"`
	ToolCall         Flag `json:"tool_call"`
	StructuredOutput Flag `json:"structured_output"`
	Attachment       Flag `json:"attachment"`
	Temperature      Flag `json:"temperature"`
	OpenWeights      Flag `json:"open_weights"`
}

// Limits holds token limits.
type Limits struct {
	ContextWindow   *int64 `json:"context_window,omitempty"`
	MaxInputTokens  *int64 `json:"max_input_tokens,omitempty"`
	MaxOutputTokens *int64 `json:"max_output_tokens,omitempty"`
}

// Modalities holds supported input and output modalities.
// A nil slice means unknown.
type Modalities struct {
	Input  []string `json:"input"`
	Output []string `json:"output"`
}

// Metadata holds descriptive attributes.
type Metadata struct {
	Family          *string `json:"family,omitempty"`
	KnowledgeCutoff *string `json:"knowledge_cutoff,omitempty"`
	LastUpdated     *string `json:"last_updated,omitempty"`
	Status          *string `json:"status,omitempty"`
}

// Match records how the entity was fused.
type Match struct {
	Confidence matcher.Confidence `json:"confidence"`
	ProviderID string             `json:"provider_id,omitempty"`
	ModelID    string             `json:"model_id,omitempty"`
}

// Staleness records which inputs were served from an outdated snapshot
// because the latest fetch failed.
type Staleness struct {
	Primary   bool `json:"primary"`
	Secondary bool `json:"secondary"`
}

// Any reports whether either input was stale.
func (s Staleness) Any() bool {
	return s.Primary || s.Secondary
}

// Key returns the normalized composite key of the entity.
func (m *Model) Key() string {
	return records.CompositeKey(m.CreatorSlug, m.Slug)
}

// Source returns the source that supplied a shared attribute, or "" when
// neither did.
func (m *Model) Source(field string) sources.ID {
	return m.FieldSources[field]
}
