// Package modelsdev fetches capability records from the models.dev catalog.
//
// The catalog is a single JSON document mapping provider IDs to provider
// objects, each holding a map of models. It is flattened into one
// records.Capability per provider/model pair, ordered by provider key then
// model key so the snapshot fingerprint does not depend on map order.
package modelsdev

import (
	"maps"
	"slices"

	"github.com/agentstation/whichllm/internal/utils/ptr"
	"github.com/agentstation/whichllm/pkg/errors"
	"github.com/agentstation/whichllm/pkg/records"
	"github.com/agentstation/whichllm/pkg/sources"
)

// API represents the structure of models.dev api.json
type API map[string]Provider

// Provider represents a provider in models.dev
type Provider struct {
	ID     string           `json:"id"`
	Name   string           `json:"name"`
	Env    []string         `json:"env"`
	NPM    *string          `json:"npm,omitempty"`
	API    *string          `json:"api,omitempty"`
	Doc    *string          `json:"doc,omitempty"`
	Models map[string]Model `json:"models"`
}

// Model represents a model in models.dev. Every attribute but the identity is
// optional upstream, so absent values stay nil.
type Model struct {
	ID               string      `json:"id"`
	Name             string      `json:"name"`
	Family           *string     `json:"family,omitempty"`
	Attachment       *bool       `json:"attachment,omitempty"`
	Reasoning        *bool       `json:"reasoning,omitempty"`
	ToolCall         *bool       `json:"tool_call,omitempty"`
	StructuredOutput *bool       `json:"structured_output,omitempty"`
	Temperature      *bool       `json:"temperature,omitempty"`
	Knowledge        *string     `json:"knowledge,omitempty"`
	ReleaseDate      *string     `json:"release_date,omitempty"`
	LastUpdated      *string     `json:"last_updated,omitempty"`
	OpenWeights      *bool       `json:"open_weights,omitempty"`
	Status           *string     `json:"status,omitempty"`
	Limit            *Limit      `json:"limit,omitempty"`
	Cost             *Cost       `json:"cost,omitempty"`
	Modalities       *Modalities `json:"modalities,omitempty"`
}

// Limit represents model token limits
type Limit struct {
	Context *int64 `json:"context,omitempty"`
	Input   *int64 `json:"input,omitempty"`
	Output  *int64 `json:"output,omitempty"`
}

// Cost represents pricing information, USD per million tokens
type Cost struct {
	Input      *float64 `json:"input,omitempty"`
	Output     *float64 `json:"output,omitempty"`
	CacheRead  *float64 `json:"cache_read,omitempty"`
	CacheWrite *float64 `json:"cache_write,omitempty"`
}

// Modalities represents input/output modalities
type Modalities struct {
	Input  []string `json:"input"`
	Output []string `json:"output"`
}

// Flatten converts the catalog into capability records. Models without a
// provider or model ID are skipped and reported.
func Flatten(api API) *sources.Batch[records.Capability] {
	batch := &sources.Batch[records.Capability]{}
	index := 0

	for _, providerKey := range slices.Sorted(maps.Keys(api)) {
		provider := api[providerKey]
		for _, modelKey := range slices.Sorted(maps.Keys(provider.Models)) {
			model := provider.Models[modelKey]
			switch {
			case provider.ID == "":
				batch.Skipped = append(batch.Skipped,
					errors.NewSchemaError(string(sources.ModelsDevID), index, "provider.id", model.ID))
			case model.ID == "":
				batch.Skipped = append(batch.Skipped,
					errors.NewSchemaError(string(sources.ModelsDevID), index, "id", ""))
			default:
				batch.Records = append(batch.Records, Row(&provider, &model))
			}
			index++
		}
	}

	return batch
}

// Row flattens one provider/model pair.
func Row(p *Provider, m *Model) records.Capability {
	row := records.Capability{
		ProviderID:   p.ID,
		ProviderName: p.Name,
		ProviderNPM:  p.NPM,
		ProviderAPI:  p.API,
		ProviderDoc:  p.Doc,

		ModelID:   m.ID,
		ModelName: m.Name,
		Family:    m.Family,

		Attachment:       m.Attachment,
		Reasoning:        m.Reasoning,
		ToolCall:         m.ToolCall,
		StructuredOutput: m.StructuredOutput,
		Temperature:      m.Temperature,
		OpenWeights:      m.OpenWeights,

		Knowledge:   m.Knowledge,
		ReleaseDate: m.ReleaseDate,
		LastUpdated: m.LastUpdated,
		Status:      m.Status,
	}

	if len(p.Env) > 0 {
		row.ProviderEnv = records.JoinList(p.Env)
	}
	if m.Limit != nil {
		row.ContextWindow = ptr.Clone(m.Limit.Context)
		row.MaxInputTokens = ptr.Clone(m.Limit.Input)
		row.MaxOutputTokens = ptr.Clone(m.Limit.Output)
	}
	if m.Cost != nil {
		row.CostInput = ptr.Clone(m.Cost.Input)
		row.CostOutput = ptr.Clone(m.Cost.Output)
		row.CostCacheRead = ptr.Clone(m.Cost.CacheRead)
		row.CostCacheWrite = ptr.Clone(m.Cost.CacheWrite)
	}
	if m.Modalities != nil {
		row.InputModalities = records.JoinList(nonNil(m.Modalities.Input))
		row.OutputModalities = records.JoinList(nonNil(m.Modalities.Output))
	}
	return row
}

// nonNil maps a missing list inside a present modalities object to an empty
// list: the object being present means the source did report modalities.
func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
