// Package combiner turns a match result into one fused model entity.
//
// Precedence per attribute category:
//   - benchmark-only attributes are copied from the primary record;
//   - capability-only attributes are copied from the matched secondary record
//     and stay unknown when there is no match or the record lacks them;
//   - shared attributes take the value of the highest ranked source that
//     reported one, and the winning source is recorded on the entity.
package combiner

import (
	"maps"
	"slices"

	"github.com/agentstation/whichllm/pkg/authority"
	"github.com/agentstation/whichllm/pkg/matcher"
	"github.com/agentstation/whichllm/pkg/models"
	"github.com/agentstation/whichllm/pkg/records"
	"github.com/agentstation/whichllm/pkg/sources"
)

// Combiner produces a merged entity from one match result.
type Combiner interface {
	Combine(result matcher.Result) models.Model
}

// Option configures a combiner.
type Option func(*combiner)

// WithAuthority replaces the field authority table.
func WithAuthority(a authority.Authority) Option {
	return func(c *combiner) {
		c.authority = a
	}
}

type combiner struct {
	authority authority.Authority
}

// New creates a combiner using the default authority table.
func New(opts ...Option) Combiner {
	c := &combiner{authority: authority.New()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Combine implements Combiner.
func (c *combiner) Combine(result matcher.Result) models.Model {
	p := result.Primary
	s := result.Secondary

	m := models.Model{
		ID:          p.ID,
		Name:        p.Name,
		Slug:        p.Slug,
		Creator:     p.CreatorName,
		CreatorSlug: p.CreatorSlug,
		Benchmarks: models.Benchmarks{
			Intelligence:  p.Intelligence,
			Coding:        p.Coding,
			Math:          p.Math,
			MMLUPro:       p.MMLUPro,
			GPQA:          p.GPQA,
			HLE:           p.HLE,
			LiveCodeBench: p.LiveCodeBench,
			SciCode:       p.SciCode,
			Math500:       p.Math500,
			AIME:          p.AIME,
		},
		Performance: models.Performance{
			TokensPerSecond:  p.TokensPerSecond,
			TimeToFirstToken: p.TimeToFirstToken,
		},
		Pricing: models.Pricing{
			Blended: p.BlendedPrice,
		},
		Match: models.Match{Confidence: result.Confidence},
	}

	if !result.Confidence.Matched() {
		s = nil
	}
	if s != nil {
		m.Match.ProviderID = s.ProviderID
		m.Match.ModelID = s.ModelID
		applySecondary(&m, s)
	}

	c.applyShared(&m, &p, s)
	return m
}

// applySecondary copies capability-only attributes.
func applySecondary(m *models.Model, s *records.Capability) {
	m.Capabilities = models.Capabilities{
		Reasoning:        models.FlagFrom(s.Reasoning),
		ToolCall:         models.FlagFrom(s.ToolCall),
		StructuredOutput: models.FlagFrom(s.StructuredOutput),
		Attachment:       models.FlagFrom(s.Attachment),
		Temperature:      models.FlagFrom(s.Temperature),
		OpenWeights:      models.FlagFrom(s.OpenWeights),
	}
	m.Limits = models.Limits{
		ContextWindow:   s.ContextWindow,
		MaxInputTokens:  s.MaxInputTokens,
		MaxOutputTokens: s.MaxOutputTokens,
	}
	m.Modalities = models.Modalities{
		Input:  records.SplitList(s.InputModalities),
		Output: records.SplitList(s.OutputModalities),
	}
	m.Metadata = models.Metadata{
		Family:          s.Family,
		KnowledgeCutoff: s.Knowledge,
		LastUpdated:     s.LastUpdated,
		Status:          s.Status,
	}
}

// applyShared resolves attributes both sources can supply.
func (c *combiner) applyShared(m *models.Model, p *records.Benchmark, s *records.Capability) {
	var secondary records.Capability
	if s != nil {
		secondary = *s
	}

	inputs := map[sources.ID]*float64{
		sources.ArtificialAnalysisID: p.InputPrice,
		sources.ModelsDevID:          secondary.CostInput,
	}
	m.Pricing.Input = pick(c, m, models.FieldInputPrice, inputs)

	outputs := map[sources.ID]*float64{
		sources.ArtificialAnalysisID: p.OutputPrice,
		sources.ModelsDevID:          secondary.CostOutput,
	}
	m.Pricing.Output = pick(c, m, models.FieldOutputPrice, outputs)

	dates := map[sources.ID]*string{
		sources.ArtificialAnalysisID: p.ReleaseDate,
		sources.ModelsDevID:          secondary.ReleaseDate,
	}
	m.ReleaseDate = pick(c, m, models.FieldReleaseDate, dates)
}

// pick returns the value of the highest ranked source that reported one and
// records that source on the model. Sources without an authority entry are
// considered last, in ID order.
func pick[T any](c *combiner, m *models.Model, field string, candidates map[sources.ID]*T) *T {
	for _, id := range c.order(field, slices.Collect(maps.Keys(candidates))) {
		if v := candidates[id]; v != nil {
			if m.FieldSources == nil {
				m.FieldSources = make(map[string]sources.ID, len(models.SharedFields()))
			}
			m.FieldSources[field] = id
			return v
		}
	}
	return nil
}

func (c *combiner) order(field string, available []sources.ID) []sources.ID {
	order := make([]sources.ID, 0, len(available))
	for _, f := range c.authority.Rank(field) {
		if slices.Contains(available, f.Source) && !slices.Contains(order, f.Source) {
			order = append(order, f.Source)
		}
	}
	slices.Sort(available)
	for _, id := range available {
		if !slices.Contains(order, id) {
			order = append(order, id)
		}
	}
	return order
}
