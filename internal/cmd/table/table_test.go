package table

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/whichllm/internal/utils/ptr"
	"github.com/agentstation/whichllm/pkg/matcher"
	"github.com/agentstation/whichllm/pkg/models"
	"github.com/agentstation/whichllm/pkg/provenance"
	"github.com/agentstation/whichllm/pkg/snapshot"
)

func TestModels(t *testing.T) {
	list := []models.Model{
		{
			Slug:         "gpt-4o-mini",
			Creator:      "OpenAI",
			Benchmarks:   models.Benchmarks{Intelligence: ptr.Float64(36.24)},
			Pricing:      models.Pricing{Input: ptr.Float64(0.15), Output: ptr.Float64(0.6)},
			Capabilities: models.Capabilities{ToolCall: models.FlagTrue, Reasoning: models.FlagFalse},
			Limits:       models.Limits{ContextWindow: ptr.Int64(128000)},
			Modalities:   models.Modalities{Input: []string{"text", "image"}},
			Match:        models.Match{Confidence: matcher.Fuzzy},
			Stale:        models.Staleness{Secondary: true},
		},
		{Slug: "mystery", Creator: "Nobody", Match: models.Match{Confidence: matcher.Unmatched}},
	}

	narrow := Models(list, false)
	assert.Len(t, narrow.Headers, 7)
	assert.Equal(t, []string{"gpt-4o-mini", "OpenAI", "36.2", "-", "0.15", "0.60", "-"}, narrow.Rows[0])

	wide := Models(list, true)
	require.Len(t, wide.Rows, 2)
	assert.Len(t, wide.Headers, len(wide.ColumnAlignment))
	assert.Equal(t, []string{"128K", "yes", "no", "yes", "fuzzy (stale)"}, wide.Rows[0][7:])
	assert.Equal(t, []string{"-", "?", "?", "?", "unmatched"}, wide.Rows[1][7:])
}

func TestStatus(t *testing.T) {
	metas := map[string]*snapshot.Meta{
		"models_dev": {Records: 10, Dropped: 2, Fingerprint: "sha256:0123456789abcdef"},
		"llms": {
			Records:     5,
			Fingerprint: "sha256:ffff",
			Fusion: &provenance.Fusion{
				Matches:   provenance.Matches{Exact: 3, Fuzzy: 1, Unmatched: 1},
				Secondary: provenance.Input{Stale: true},
			},
		},
	}
	d := Status(metas, []string{"artificial_analysis", "models_dev", "llms"})
	require.Len(t, d.Rows, 3)
	assert.Equal(t, "missing", d.Rows[0][4])
	assert.Equal(t, []string{"models_dev", "10", "-", "0123456789ab", "2 dropped"}, d.Rows[1])
	assert.Equal(t, "exact 3, fuzzy 1, unmatched 1, stale input", d.Rows[2][4])
}

func TestFormatters(t *testing.T) {
	assert.Equal(t, "-", Float(nil, 2))
	assert.Equal(t, "1.50", Float(ptr.Float64(1.5), 2))

	assert.Equal(t, "-", Tokens(nil))
	assert.Equal(t, "512", Tokens(ptr.Int64(512)))
	assert.Equal(t, "200K", Tokens(ptr.Int64(200000)))
	assert.Equal(t, "1M", Tokens(ptr.Int64(1000000)))
	assert.Equal(t, "1.5M", Tokens(ptr.Int64(1500000)))

	assert.Equal(t, "yes", Flag(models.FlagTrue))
	assert.Equal(t, "no", Flag(models.FlagFalse))
	assert.Equal(t, "?", Flag(models.FlagUnknown))

	assert.Equal(t, "-", Time(time.Time{}))

	assert.Equal(t, "512 B", FormatBytes(512))
	assert.Equal(t, "1.5 KB", FormatBytes(1536))
	assert.Equal(t, "2.0 MB", FormatBytes(2*1024*1024))
}

func TestUsage(t *testing.T) {
	d := Usage(snapshot.Usage{Dir: "/tmp/c", Artifacts: 3, Files: 6, Bytes: 2048})
	assert.Equal(t, [][]string{{"/tmp/c", "3", "6", "2.0 KB"}}, d.Rows)
}
