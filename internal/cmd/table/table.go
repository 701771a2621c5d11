// Package table converts fused models and cache state into table rows.
package table

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/agentstation/whichllm/pkg/models"
	"github.com/agentstation/whichllm/pkg/snapshot"
)

// Align represents column alignment in tables.
type Align int

const (
	// AlignDefault uses the default alignment (skip).
	AlignDefault Align = iota
	// AlignLeft aligns content to the left.
	AlignLeft
	// AlignCenter centers content.
	AlignCenter
	// AlignRight aligns content to the right.
	AlignRight
)

// Data is a rendered table: headers, rows and optional column alignment.
type Data struct {
	Headers         []string
	Rows            [][]string
	ColumnAlignment []Align
}

// Models converts fused models to table rows. wide adds the capability,
// limit and match columns.
func Models(list []models.Model, wide bool) Data {
	headers := []string{"Model", "Creator", "Intelligence", "Coding", "Input $", "Output $", "TPS"}
	align := []Align{AlignLeft, AlignLeft, AlignRight, AlignRight, AlignRight, AlignRight, AlignRight}
	if wide {
		headers = append(headers, "Context", "Tools", "Reasoning", "Vision", "Match")
		align = append(align, AlignRight, AlignCenter, AlignCenter, AlignCenter, AlignLeft)
	}

	rows := make([][]string, 0, len(list))
	for _, m := range list {
		row := []string{
			m.Slug,
			m.Creator,
			Float(m.Benchmarks.Intelligence, 1),
			Float(m.Benchmarks.Coding, 1),
			Float(m.Pricing.Input, 2),
			Float(m.Pricing.Output, 2),
			Float(m.Performance.TokensPerSecond, 0),
		}
		if wide {
			vision := "?"
			if m.Modalities.Input != nil {
				vision = "no"
				if slices.Contains(m.Modalities.Input, "image") {
					vision = "yes"
				}
			}
			match := m.Match.Confidence.String()
			if m.Stale.Any() {
				match += " (stale)"
			}
			row = append(row,
				Tokens(m.Limits.ContextWindow),
				Flag(m.Capabilities.ToolCall),
				Flag(m.Capabilities.Reasoning),
				vision,
				match,
			)
		}
		rows = append(rows, row)
	}
	return Data{Headers: headers, Rows: rows, ColumnAlignment: align}
}

// Status describes the three artifacts of a cache directory.
func Status(metas map[string]*snapshot.Meta, order []string) Data {
	rows := make([][]string, 0, len(order))
	for _, name := range order {
		meta := metas[name]
		if meta == nil {
			rows = append(rows, []string{name, "-", "-", "-", "missing"})
			continue
		}
		note := ""
		if meta.Dropped > 0 {
			note = fmt.Sprintf("%d dropped", meta.Dropped)
		}
		if f := meta.Fusion; f != nil {
			note = fmt.Sprintf("exact %d, fuzzy %d, unmatched %d", f.Matches.Exact, f.Matches.Fuzzy, f.Matches.Unmatched)
			if f.Primary.Stale || f.Secondary.Stale {
				note += ", stale input"
			}
		}
		rows = append(rows, []string{
			name,
			strconv.Itoa(meta.Records),
			Time(meta.FetchedAt),
			shortFingerprint(meta.Fingerprint),
			note,
		})
	}
	return Data{
		Headers:         []string{"Artifact", "Records", "Updated", "Fingerprint", "Notes"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignRight, AlignLeft, AlignLeft, AlignLeft},
	}
}

// Usage describes cache disk usage.
func Usage(u snapshot.Usage) Data {
	return Data{
		Headers: []string{"Location", "Artifacts", "Files", "Size"},
		Rows: [][]string{{
			u.Dir,
			strconv.Itoa(u.Artifacts),
			strconv.Itoa(u.Files),
			FormatBytes(u.Bytes),
		}},
	}
}

// Float formats an optional number, using "-" for unknown.
func Float(v *float64, precision int) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', precision, 64)
}

// Tokens formats a token count as 128K or 1M.
func Tokens(v *int64) string {
	if v == nil {
		return "-"
	}
	n := *v
	switch {
	case n >= 1_000_000 && n%1_000_000 == 0:
		return fmt.Sprintf("%dM", n/1_000_000)
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%dK", n/1_000)
	default:
		return strconv.FormatInt(n, 10)
	}
}

// Flag renders a tri-state flag as yes, no or ?.
func Flag(f models.Flag) string {
	switch f {
	case models.FlagTrue:
		return "yes"
	case models.FlagFalse:
		return "no"
	default:
		return "?"
	}
}

// Time formats a timestamp, using "-" for the zero time.
func Time(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

// FormatBytes formats byte count as human-readable size.
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}

	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}

	return fmt.Sprintf("%.1f %cB",
		float64(bytes)/float64(div), "KMGTPE"[exp])
}

func shortFingerprint(fp string) string {
	fp = strings.TrimPrefix(fp, "sha256:")
	if len(fp) > 12 {
		return fp[:12]
	}
	return fp
}
