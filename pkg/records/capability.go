package records

// Capability is a flattened raw record from the capability source: one row
// per provider/model pair. It contributes capability flags, limits,
// modalities and metadata.
type Capability struct {
	// Provider
	ProviderID   string  `parquet:"name=provider_id, type=BYTE_ARRAY, convertedtype=UTF8" json:"provider_id"`
	ProviderName string  `parquet:"name=provider_name, type=BYTE_ARRAY, convertedtype=UTF8" json:"provider_name"`
	ProviderEnv  *string `parquet:"name=provider_env, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL" json:"provider_env,omitempty"`
	ProviderNPM  *string `parquet:"name=provider_npm, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL" json:"provider_npm,omitempty"`
	ProviderAPI  *string `parquet:"name=provider_api, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL" json:"provider_api,omitempty"`
	ProviderDoc  *string `parquet:"name=provider_doc, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL" json:"provider_doc,omitempty"`

	// Model
	ModelID   string  `parquet:"name=model_id, type=BYTE_ARRAY, convertedtype=UTF8" json:"model_id"`
	ModelName string  `parquet:"name=model_name, type=BYTE_ARRAY, convertedtype=UTF8" json:"model_name"`
	Family    *string `parquet:"name=family, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL" json:"family,omitempty"`

	// Capabilities
	Attachment       *bool `parquet:"name=attachment, type=BOOLEAN, repetitiontype=OPTIONAL" json:"attachment,omitempty"`
	Reasoning        *bool `parquet:"name=reasoning, type=BOOLEAN, repetitiontype=OPTIONAL" json:"reasoning,omitempty"`
	ToolCall         *bool `parquet:"name=tool_call, type=BOOLEAN, repetitiontype=OPTIONAL" json:"tool_call,omitempty"`
	StructuredOutput *bool `parquet:"name=structured_output, type=BOOLEAN, repetitiontype=OPTIONAL" json:"structured_output,omitempty"`
	Temperature      *bool `parquet:"name=temperature, type=BOOLEAN, repetitiontype=OPTIONAL" json:"temperature,omitempty"`
	OpenWeights      *bool `parquet:"name=open_weights, type=BOOLEAN, repetitiontype=OPTIONAL" json:"open_weights,omitempty"`

	// Metadata
	Knowledge   *string `parquet:"name=knowledge, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL" json:"knowledge,omitempty"`
	ReleaseDate *string `parquet:"name=release_date, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL" json:"release_date,omitempty"`
	LastUpdated *string `parquet:"name=last_updated, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL" json:"last_updated,omitempty"`
	Status      *string `parquet:"name=status, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL" json:"status,omitempty"`

	// Limits
	ContextWindow   *int64 `parquet:"name=context_window, type=INT64, repetitiontype=OPTIONAL" json:"context_window,omitempty"`
	MaxInputTokens  *int64 `parquet:"name=max_input_tokens, type=INT64, repetitiontype=OPTIONAL" json:"max_input_tokens,omitempty"`
	MaxOutputTokens *int64 `parquet:"name=max_output_tokens, type=INT64, repetitiontype=OPTIONAL" json:"max_output_tokens,omitempty"`

	// Cost, USD per million tokens
	CostInput      *float64 `parquet:"name=cost_input, type=DOUBLE, repetitiontype=OPTIONAL" json:"cost_input,omitempty"`
	CostOutput     *float64 `parquet:"name=cost_output, type=DOUBLE, repetitiontype=OPTIONAL" json:"cost_output,omitempty"`
	CostCacheRead  *float64 `parquet:"name=cost_cache_read, type=DOUBLE, repetitiontype=OPTIONAL" json:"cost_cache_read,omitempty"`
	CostCacheWrite *float64 `parquet:"name=cost_cache_write, type=DOUBLE, repetitiontype=OPTIONAL" json:"cost_cache_write,omitempty"`

	// Modalities, comma separated. Nil means the source did not list them.
	InputModalities  *string `parquet:"name=input_modalities, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL" json:"input_modalities,omitempty"`
	OutputModalities *string `parquet:"name=output_modalities, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL" json:"output_modalities,omitempty"`
}

// Identity returns the provider id and model id.
func (c Capability) Identity() Identity {
	return Identity{ProviderKey: c.ProviderID, ModelKey: c.ModelID}
}
