package models

import (
	"encoding/json"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/whichllm/internal/utils/ptr"
)

func TestFlagFrom(t *testing.T) {
	assert.Equal(t, FlagUnknown, FlagFrom(nil))
	assert.Equal(t, FlagTrue, FlagFrom(ptr.Bool(true)))
	assert.Equal(t, FlagFalse, FlagFrom(ptr.Bool(false)))

	var zero Flag
	assert.Equal(t, FlagUnknown, zero)
	assert.False(t, zero.Known())
	assert.True(t, FlagFalse.Known())
}

func TestFlagPtr(t *testing.T) {
	assert.Nil(t, FlagUnknown.Ptr())
	require.NotNil(t, FlagFalse.Ptr())
	assert.False(t, *FlagFalse.Ptr())
	assert.True(t, *FlagTrue.Ptr())
}

func TestFlagString(t *testing.T) {
	assert.Equal(t, "unknown", FlagUnknown.String())
	assert.Equal(t, "false", FlagFalse.String())
	assert.Equal(t, "true", FlagTrue.String())
}

func TestFlagJSON(t *testing.T) {
	type wrapper struct {
		ToolCall  Flag `json:"tool_call"`
		Reasoning Flag `json:"reasoning"`
		Vision    Flag `json:"vision"`
	}

	data, err := json.Marshal(wrapper{ToolCall: FlagTrue, Reasoning: FlagFalse})
	require.NoError(t, err)
	assert.JSONEq(t, `{"tool_call":true,"reasoning":false,"vision":null}`, string(data))

	var decoded wrapper
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, FlagTrue, decoded.ToolCall)
	assert.Equal(t, FlagFalse, decoded.Reasoning)
	assert.Equal(t, FlagUnknown, decoded.Vision)

	var bad Flag
	assert.Error(t, json.Unmarshal([]byte(`"yes"`), &bad))
}

func TestFlagYAML(t *testing.T) {
	data, err := yaml.Marshal(map[string]Flag{"reasoning": FlagTrue, "tool_call": FlagUnknown})
	require.NoError(t, err)
	assert.Contains(t, string(data), "reasoning: true")
	assert.Contains(t, string(data), "tool_call: null")
}
