// Package compare lines up models side by side and marks the best value of
// every comparable attribute.
package compare

import (
	"math"
	"strconv"

	"github.com/agentstation/whichllm/internal/cmd/table"
	"github.com/agentstation/whichllm/pkg/models"
)

// Direction says which end of a numeric attribute wins.
type Direction int

const (
	// None marks descriptive attributes that have no winner.
	None Direction = iota
	// Higher marks attributes where the largest value wins.
	Higher
	// Lower marks attributes where the smallest value wins.
	Lower
)

// tolerance under which two values tie for the win.
const tolerance = 0.001

// Attribute is one comparable column of a model.
type Attribute struct {
	Name      string
	Direction Direction
	Price     bool
	Text      func(m *models.Model) string
	Number    func(m *models.Model) *float64
}

// Attributes returns the attributes to compare. verbose adds the individual
// benchmark scores.
func Attributes(verbose bool) []Attribute {
	attrs := []Attribute{
		{Name: "Creator", Text: func(m *models.Model) string { return m.Creator }},
		{Name: "Intelligence", Direction: Higher, Number: func(m *models.Model) *float64 { return m.Benchmarks.Intelligence }},
		{Name: "Coding", Direction: Higher, Number: func(m *models.Model) *float64 { return m.Benchmarks.Coding }},
		{Name: "Input $/M", Direction: Lower, Price: true, Number: func(m *models.Model) *float64 { return m.Pricing.Input }},
		{Name: "Output $/M", Direction: Lower, Price: true, Number: func(m *models.Model) *float64 { return m.Pricing.Output }},
		{Name: "Blended $/M", Direction: Lower, Price: true, Number: func(m *models.Model) *float64 { return m.Pricing.Blended }},
		{Name: "TPS", Direction: Higher, Number: func(m *models.Model) *float64 { return m.Performance.TokensPerSecond }},
		{Name: "Latency (s)", Direction: Lower, Number: func(m *models.Model) *float64 { return m.Performance.TimeToFirstToken }},
	}
	if !verbose {
		return attrs
	}
	return append(attrs,
		Attribute{Name: "Math", Direction: Higher, Number: func(m *models.Model) *float64 { return m.Benchmarks.Math }},
		Attribute{Name: "MMLU-Pro", Direction: Higher, Number: func(m *models.Model) *float64 { return m.Benchmarks.MMLUPro }},
		Attribute{Name: "GPQA", Direction: Higher, Number: func(m *models.Model) *float64 { return m.Benchmarks.GPQA }},
		Attribute{Name: "HLE", Direction: Higher, Number: func(m *models.Model) *float64 { return m.Benchmarks.HLE }},
		Attribute{Name: "LiveCodeBench", Direction: Higher, Number: func(m *models.Model) *float64 { return m.Benchmarks.LiveCodeBench }},
		Attribute{Name: "SciCode", Direction: Higher, Number: func(m *models.Model) *float64 { return m.Benchmarks.SciCode }},
		Attribute{Name: "Math 500", Direction: Higher, Number: func(m *models.Model) *float64 { return m.Benchmarks.Math500 }},
		Attribute{Name: "AIME", Direction: Higher, Number: func(m *models.Model) *float64 { return m.Benchmarks.AIME }},
	)
}

// Row is one compared attribute across all models.
type Row struct {
	Name    string   `json:"name" yaml:"name"`
	Values  []string `json:"values" yaml:"values"`
	Winners []bool   `json:"winners" yaml:"winners"`
}

// Result is a side-by-side comparison.
type Result struct {
	Models []string `json:"models" yaml:"models"`
	Rows   []Row    `json:"fields" yaml:"fields"`
}

// Compare builds the comparison of list over attrs. Unknown values render as
// "-" and never win.
func Compare(list []models.Model, attrs []Attribute) *Result {
	res := &Result{Models: make([]string, len(list))}
	for i := range list {
		res.Models[i] = list[i].Name
		if res.Models[i] == "" {
			res.Models[i] = list[i].Slug
		}
	}

	for _, attr := range attrs {
		row := Row{
			Name:    attr.Name,
			Values:  make([]string, len(list)),
			Winners: make([]bool, len(list)),
		}
		if attr.Number == nil {
			for i := range list {
				row.Values[i] = attr.Text(&list[i])
			}
			res.Rows = append(res.Rows, row)
			continue
		}

		values := make([]*float64, len(list))
		for i := range list {
			values[i] = attr.Number(&list[i])
		}
		row.Winners = Winners(values, attr.Direction)
		for i, v := range values {
			row.Values[i] = format(v, attr.Price)
			if row.Winners[i] {
				row.Values[i] += " *"
			}
		}
		res.Rows = append(res.Rows, row)
	}
	return res
}

// Winners marks the values within tolerance of the best known value.
func Winners(values []*float64, dir Direction) []bool {
	winners := make([]bool, len(values))
	if dir == None {
		return winners
	}

	best, found := 0.0, false
	for _, v := range values {
		if v == nil {
			continue
		}
		if !found || (dir == Higher && *v > best) || (dir == Lower && *v < best) {
			best, found = *v, true
		}
	}
	if !found {
		return winners
	}
	for i, v := range values {
		winners[i] = v != nil && math.Abs(*v-best) < tolerance
	}
	return winners
}

// Table renders the comparison with one column per model.
func (r *Result) Table() table.Data {
	headers := append([]string{"Field"}, r.Models...)
	align := make([]table.Align, len(headers))
	align[0] = table.AlignLeft
	for i := 1; i < len(align); i++ {
		align[i] = table.AlignRight
	}

	rows := make([][]string, 0, len(r.Rows))
	for _, row := range r.Rows {
		rows = append(rows, append([]string{row.Name}, row.Values...))
	}
	return table.Data{Headers: headers, Rows: rows, ColumnAlignment: align}
}

func format(v *float64, price bool) string {
	if v == nil {
		return "-"
	}
	if price {
		return "$" + strconv.FormatFloat(*v, 'f', 2, 64)
	}
	return strconv.FormatFloat(*v, 'f', 1, 64)
}
