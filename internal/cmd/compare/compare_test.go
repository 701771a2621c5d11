package compare

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/whichllm/internal/utils/ptr"
	"github.com/agentstation/whichllm/pkg/models"
)

func fixture() []models.Model {
	return []models.Model{
		{
			Name: "GPT-4o mini", Slug: "gpt-4o-mini", Creator: "OpenAI",
			Benchmarks:  models.Benchmarks{Intelligence: ptr.Float64(36), Coding: ptr.Float64(30)},
			Pricing:     models.Pricing{Input: ptr.Float64(0.15), Output: ptr.Float64(0.6)},
			Performance: models.Performance{TokensPerSecond: ptr.Float64(80), TimeToFirstToken: ptr.Float64(0.4)},
		},
		{
			Name: "o3", Slug: "o3", Creator: "OpenAI",
			Benchmarks: models.Benchmarks{Intelligence: ptr.Float64(67), Coding: ptr.Float64(30.0004)},
			Pricing:    models.Pricing{Input: ptr.Float64(2), Output: ptr.Float64(8)},
		},
		{
			Slug: "mystery", Creator: "Nobody",
		},
	}
}

func row(t *testing.T, r *Result, name string) Row {
	t.Helper()
	for _, row := range r.Rows {
		if row.Name == name {
			return row
		}
	}
	t.Fatalf("no row %q", name)
	return Row{}
}

func TestCompare(t *testing.T) {
	res := Compare(fixture(), Attributes(false))

	assert.Equal(t, []string{"GPT-4o mini", "o3", "mystery"}, res.Models)
	require.Len(t, res.Rows, 8)

	tests := []struct {
		name    string
		values  []string
		winners []bool
	}{
		{"Creator", []string{"OpenAI", "OpenAI", "Nobody"}, []bool{false, false, false}},
		{"Intelligence", []string{"36.0", "67.0 *", "-"}, []bool{false, true, false}},
		{"Coding", []string{"30.0 *", "30.0 *", "-"}, []bool{true, true, false}},
		{"Input $/M", []string{"$0.15 *", "$2.00", "-"}, []bool{true, false, false}},
		{"Blended $/M", []string{"-", "-", "-"}, []bool{false, false, false}},
		{"TPS", []string{"80.0 *", "-", "-"}, []bool{true, false, false}},
		{"Latency (s)", []string{"0.4 *", "-", "-"}, []bool{true, false, false}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := row(t, res, tt.name)
			if diff := cmp.Diff(tt.values, got.Values); diff != "" {
				t.Errorf("values (-want +got):\n%s", diff)
			}
			assert.Equal(t, tt.winners, got.Winners)
		})
	}
}

func TestCompareVerbose(t *testing.T) {
	res := Compare(fixture()[:2], Attributes(true))
	assert.Len(t, res.Rows, 16)
	assert.Equal(t, []string{"-", "-"}, row(t, res, "AIME").Values)
}

func TestWinners(t *testing.T) {
	values := []*float64{ptr.Float64(1), nil, ptr.Float64(3)}
	assert.Equal(t, []bool{false, false, true}, Winners(values, Higher))
	assert.Equal(t, []bool{true, false, false}, Winners(values, Lower))
	assert.Equal(t, []bool{false, false, false}, Winners(values, None))
	assert.Equal(t, []bool{false, false}, Winners([]*float64{nil, nil}, Higher))
}

func TestResultTable(t *testing.T) {
	data := Compare(fixture()[:2], Attributes(false)).Table()
	assert.Equal(t, []string{"Field", "GPT-4o mini", "o3"}, data.Headers)
	require.Len(t, data.Rows, 8)
	assert.Equal(t, []string{"Intelligence", "36.0", "67.0 *"}, data.Rows[1])
	assert.Len(t, data.ColumnAlignment, 3)
}
