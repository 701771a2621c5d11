// Package artificialanalysis fetches benchmark records from the Artificial
// Analysis data API.
package artificialanalysis

import (
	"github.com/agentstation/whichllm/pkg/errors"
	"github.com/agentstation/whichllm/pkg/records"
	"github.com/agentstation/whichllm/pkg/sources"
)

// Response is the envelope returned by the LLM listing endpoint.
type Response struct {
	Data []Model `json:"data"`
}

// Model is one LLM entry. Unrecognized attributes are ignored.
type Model struct {
	ID                            string       `json:"id"`
	Name                          string       `json:"name"`
	Slug                          string       `json:"slug"`
	ReleaseDate                   *string      `json:"release_date,omitempty"`
	ModelCreator                  Creator      `json:"model_creator"`
	Evaluations                   *Evaluations `json:"evaluations,omitempty"`
	Pricing                       *Pricing     `json:"pricing,omitempty"`
	MedianOutputTokensPerSecond   *float64     `json:"median_output_tokens_per_second,omitempty"`
	MedianTimeToFirstTokenSeconds *float64     `json:"median_time_to_first_token_seconds,omitempty"`
}

// Creator identifies the organization that built a model.
type Creator struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	Slug *string `json:"slug,omitempty"`
}

// Evaluations holds benchmark scores.
type Evaluations struct {
	IntelligenceIndex *float64 `json:"artificial_analysis_intelligence_index,omitempty"`
	CodingIndex       *float64 `json:"artificial_analysis_coding_index,omitempty"`
	MathIndex         *float64 `json:"artificial_analysis_math_index,omitempty"`
	MMLUPro           *float64 `json:"mmlu_pro,omitempty"`
	GPQA              *float64 `json:"gpqa,omitempty"`
	HLE               *float64 `json:"hle,omitempty"`
	LiveCodeBench     *float64 `json:"livecodebench,omitempty"`
	SciCode           *float64 `json:"scicode,omitempty"`
	Math500           *float64 `json:"math_500,omitempty"`
	AIME              *float64 `json:"aime,omitempty"`
}

// Pricing holds USD prices per million tokens.
type Pricing struct {
	Blended3To1 *float64 `json:"price_1m_blended_3_to_1,omitempty"`
	Input       *float64 `json:"price_1m_input_tokens,omitempty"`
	Output      *float64 `json:"price_1m_output_tokens,omitempty"`
}

// Normalize converts the response into benchmark records, in response order.
// Entries without a model slug or creator slug are skipped and reported.
func Normalize(resp *Response) *sources.Batch[records.Benchmark] {
	batch := &sources.Batch[records.Benchmark]{
		Records: make([]records.Benchmark, 0, len(resp.Data)),
	}
	source := string(sources.ArtificialAnalysisID)

	for i := range resp.Data {
		m := &resp.Data[i]
		switch {
		case m.Slug == "":
			batch.Skipped = append(batch.Skipped, errors.NewSchemaError(source, i, "slug", m.ID))
		case m.ModelCreator.Slug == nil || *m.ModelCreator.Slug == "":
			batch.Skipped = append(batch.Skipped, errors.NewSchemaError(source, i, "model_creator.slug", m.ID))
		default:
			batch.Records = append(batch.Records, Record(m))
		}
	}

	return batch
}

// Record converts one entry. The creator slug must be present.
func Record(m *Model) records.Benchmark {
	b := records.Benchmark{
		ID:               m.ID,
		Name:             m.Name,
		Slug:             m.Slug,
		ReleaseDate:      m.ReleaseDate,
		CreatorID:        m.ModelCreator.ID,
		CreatorName:      m.ModelCreator.Name,
		TokensPerSecond:  m.MedianOutputTokensPerSecond,
		TimeToFirstToken: m.MedianTimeToFirstTokenSeconds,
	}
	if m.ModelCreator.Slug != nil {
		b.CreatorSlug = *m.ModelCreator.Slug
	}

	if e := m.Evaluations; e != nil {
		b.Intelligence = e.IntelligenceIndex
		b.Coding = e.CodingIndex
		b.Math = e.MathIndex
		b.MMLUPro = e.MMLUPro
		b.GPQA = e.GPQA
		b.HLE = e.HLE
		b.LiveCodeBench = e.LiveCodeBench
		b.SciCode = e.SciCode
		b.Math500 = e.Math500
		b.AIME = e.AIME
	}

	if p := m.Pricing; p != nil {
		b.BlendedPrice = p.Blended3To1
		b.InputPrice = p.Input
		b.OutputPrice = p.Output
	}

	return b
}
