package records

// Benchmark is a raw record from the benchmark source. It contributes
// evaluation scores, throughput measurements and pricing.
type Benchmark struct {
	ID          string  `parquet:"name=id, type=BYTE_ARRAY, convertedtype=UTF8" json:"id"`
	Name        string  `parquet:"name=name, type=BYTE_ARRAY, convertedtype=UTF8" json:"name"`
	Slug        string  `parquet:"name=slug, type=BYTE_ARRAY, convertedtype=UTF8" json:"slug"`
	ReleaseDate *string `parquet:"name=release_date, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL" json:"release_date,omitempty"`

	CreatorID   string `parquet:"name=creator_id, type=BYTE_ARRAY, convertedtype=UTF8" json:"creator_id"`
	CreatorName string `parquet:"name=creator_name, type=BYTE_ARRAY, convertedtype=UTF8" json:"creator_name"`
	CreatorSlug string `parquet:"name=creator_slug, type=BYTE_ARRAY, convertedtype=UTF8" json:"creator_slug"`

	// Evaluations
	Intelligence  *float64 `parquet:"name=intelligence, type=DOUBLE, repetitiontype=OPTIONAL" json:"intelligence,omitempty"`
	Coding        *float64 `parquet:"name=coding, type=DOUBLE, repetitiontype=OPTIONAL" json:"coding,omitempty"`
	Math          *float64 `parquet:"name=math, type=DOUBLE, repetitiontype=OPTIONAL" json:"math,omitempty"`
	MMLUPro       *float64 `parquet:"name=mmlu_pro, type=DOUBLE, repetitiontype=OPTIONAL" json:"mmlu_pro,omitempty"`
	GPQA          *float64 `parquet:"name=gpqa, type=DOUBLE, repetitiontype=OPTIONAL" json:"gpqa,omitempty"`
	HLE           *float64 `parquet:"name=hle, type=DOUBLE, repetitiontype=OPTIONAL" json:"hle,omitempty"`
	LiveCodeBench *float64 `parquet:"name=livecodebench, type=DOUBLE, repetitiontype=OPTIONAL" json:"livecodebench,omitempty"`
	SciCode       *float64 `parquet:"name=scicode, type=DOUBLE, repetitiontype=OPTIONAL" json:"scicode,omitempty"`
	Math500       *float64 `parquet:"name=math_500, type=DOUBLE, repetitiontype=OPTIONAL" json:"math_500,omitempty"`
	AIME          *float64 `parquet:"name=aime, type=DOUBLE, repetitiontype=OPTIONAL" json:"aime,omitempty"`

	// Pricing, USD per million tokens
	BlendedPrice *float64 `parquet:"name=price, type=DOUBLE, repetitiontype=OPTIONAL" json:"price,omitempty"`
	InputPrice   *float64 `parquet:"name=input_price, type=DOUBLE, repetitiontype=OPTIONAL" json:"input_price,omitempty"`
	OutputPrice  *float64 `parquet:"name=output_price, type=DOUBLE, repetitiontype=OPTIONAL" json:"output_price,omitempty"`

	// Performance
	TokensPerSecond  *float64 `parquet:"name=tps, type=DOUBLE, repetitiontype=OPTIONAL" json:"tps,omitempty"`
	TimeToFirstToken *float64 `parquet:"name=latency, type=DOUBLE, repetitiontype=OPTIONAL" json:"latency,omitempty"`
}

// Identity returns the creator slug and model slug.
func (b Benchmark) Identity() Identity {
	return Identity{ProviderKey: b.CreatorSlug, ModelKey: b.Slug}
}
