// Package cost projects token spend for merged models from their per-million
// token prices.
package cost

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/agentstation/whichllm/internal/cmd/table"
	"github.com/agentstation/whichllm/internal/utils/ptr"
	"github.com/agentstation/whichllm/pkg/errors"
	"github.com/agentstation/whichllm/pkg/models"
)

// DaysPerMonth is the month length used for projections.
const DaysPerMonth = 30

// Period is the projection horizon.
type Period string

const (
	// Once prices the given requests once.
	Once Period = "once"
	// Daily treats the requests as a daily volume.
	Daily Period = "daily"
	// Monthly treats the requests as a daily volume over a month.
	Monthly Period = "monthly"
)

// ParsePeriod accepts once, daily/day and monthly/month.
func ParsePeriod(s string) (Period, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "once":
		return Once, nil
	case "daily", "day":
		return Daily, nil
	case "monthly", "month":
		return Monthly, nil
	}
	return "", errors.NewValidationError("period", s, "must be once, daily or monthly")
}

// ParseTokens parses a token count such as 1500, 1.5K, 2M or 1B.
func ParseTokens(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.NewValidationError("tokens", s, "empty token count")
	}

	num, mult := s, 1.0
	switch s[len(s)-1] {
	case 'k', 'K':
		num, mult = s[:len(s)-1], 1e3
	case 'm', 'M':
		num, mult = s[:len(s)-1], 1e6
	case 'b', 'B':
		num, mult = s[:len(s)-1], 1e9
	}

	v, err := strconv.ParseFloat(num, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.NewValidationError("tokens", s, "not a number")
	}
	if v < 0 {
		return 0, errors.NewValidationError("tokens", s, "must not be negative")
	}
	return int64(math.Round(v * mult)), nil
}

// Request describes the workload to price.
type Request struct {
	InputTokens  int64
	OutputTokens int64
	Requests     int64
	Period       Period
}

// Estimate is the projected cost for one model. Costs are nil when the model
// has no price for any side of the request.
type Estimate struct {
	Name         string   `json:"name" yaml:"name"`
	InputTokens  int64    `json:"input_tokens" yaml:"input_tokens"`
	OutputTokens int64    `json:"output_tokens" yaml:"output_tokens"`
	InputCost    *float64 `json:"input_cost" yaml:"input_cost"`
	OutputCost   *float64 `json:"output_cost" yaml:"output_cost"`
	TotalCost    *float64 `json:"total_cost" yaml:"total_cost"`
	Requests     int64    `json:"requests" yaml:"requests"`
	Period       Period   `json:"period" yaml:"period"`
	PeriodCost   *float64 `json:"period_cost" yaml:"period_cost"`
	MonthlyCost  *float64 `json:"monthly_cost" yaml:"monthly_cost"`
}

// Calculate prices req against m. A side with an unknown price contributes
// nothing; the total is unknown only when both sides are.
func Calculate(m *models.Model, req Request) Estimate {
	e := Estimate{
		Name:         m.Name,
		InputTokens:  req.InputTokens,
		OutputTokens: req.OutputTokens,
		Requests:     req.Requests,
		Period:       req.Period,
	}
	if e.Name == "" {
		e.Name = m.Slug
	}

	e.InputCost = perMillion(m.Pricing.Input, req.InputTokens)
	e.OutputCost = perMillion(m.Pricing.Output, req.OutputTokens)
	switch {
	case e.InputCost != nil && e.OutputCost != nil:
		e.TotalCost = ptr.Float64(*e.InputCost + *e.OutputCost)
	case e.InputCost != nil:
		e.TotalCost = ptr.Float64(*e.InputCost)
	case e.OutputCost != nil:
		e.TotalCost = ptr.Float64(*e.OutputCost)
	}
	if e.TotalCost == nil {
		return e
	}

	perPeriod := *e.TotalCost * float64(req.Requests)
	switch req.Period {
	case Daily:
		e.PeriodCost = ptr.Float64(perPeriod)
		e.MonthlyCost = ptr.Float64(perPeriod * DaysPerMonth)
	case Monthly:
		e.PeriodCost = ptr.Float64(perPeriod * DaysPerMonth)
		e.MonthlyCost = e.PeriodCost
	default:
		e.PeriodCost = ptr.Float64(perPeriod)
	}
	return e
}

// Cheapest returns the lowest known total, or nil when no total is known.
func Cheapest(estimates []Estimate) *float64 {
	var low *float64
	for _, e := range estimates {
		if e.TotalCost != nil && (low == nil || *e.TotalCost < *low) {
			low = e.TotalCost
		}
	}
	return low
}

// Table renders per-request costs, marking the cheapest total when more than
// one model is priced. Projections for daily and monthly periods get their
// own columns.
func Table(estimates []Estimate, period Period) table.Data {
	headers := []string{"Model", "Input Cost", "Output Cost", "Total"}
	align := []table.Align{table.AlignLeft, table.AlignRight, table.AlignRight, table.AlignRight}
	if period == Daily {
		headers = append(headers, "Daily")
		align = append(align, table.AlignRight)
	}
	if period != Once {
		headers = append(headers, "Monthly")
		align = append(align, table.AlignRight)
	}

	low := Cheapest(estimates)
	rows := make([][]string, 0, len(estimates))
	for _, e := range estimates {
		total := Format(e.TotalCost)
		if len(estimates) > 1 && low != nil && e.TotalCost != nil && *e.TotalCost == *low {
			total += " *"
		}
		row := []string{e.Name, Format(e.InputCost), Format(e.OutputCost), total}
		if period == Daily {
			row = append(row, Format(e.PeriodCost))
		}
		if period != Once {
			row = append(row, Format(e.MonthlyCost))
		}
		rows = append(rows, row)
	}
	return table.Data{Headers: headers, Rows: rows, ColumnAlignment: align}
}

// Format renders a dollar amount with more precision for small values.
func Format(v *float64) string {
	switch {
	case v == nil:
		return "N/A"
	case *v < 0.01:
		return fmt.Sprintf("$%.4f", *v)
	case *v < 1:
		return fmt.Sprintf("$%.3f", *v)
	default:
		return fmt.Sprintf("$%.2f", *v)
	}
}

// Tokens renders a token count as 1.5K or 2.0M.
func Tokens(n int64) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1_000 && n%1_000 == 0:
		return fmt.Sprintf("%dK", n/1_000)
	case n >= 1_000:
		return fmt.Sprintf("%.1fK", float64(n)/1_000)
	default:
		return strconv.FormatInt(n, 10)
	}
}

func perMillion(price *float64, tokens int64) *float64 {
	if price == nil {
		return nil
	}
	return ptr.Float64(float64(tokens) / 1_000_000 * *price)
}
