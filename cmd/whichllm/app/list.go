package app

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentstation/whichllm/internal/cmd/filter"
	"github.com/agentstation/whichllm/internal/cmd/output"
	"github.com/agentstation/whichllm/internal/cmd/table"
	"github.com/agentstation/whichllm/internal/pattern"
	"github.com/agentstation/whichllm/pkg/matcher"
)

// listFlags holds the list command's filter flags.
type listFlags struct {
	filter          string
	regex           bool
	creator         string
	capability      string
	confidence      string
	minContext      int64
	maxPrice        float64
	minIntelligence float64
	search          string
	limit           int
}

// NewListCommand creates the list command.
func (a *App) NewListCommand() *cobra.Command {
	flags := &listFlags{}

	cmd := &cobra.Command{
		Use:     "list",
		GroupID: "core",
		Aliases: []string{"ls"},
		Short:   "List models from the merged view",
		Long: `List reads the merged view from the cache. Run "whichllm refresh" first
to populate it.

Capability filters only keep models where the capability is known to be
present; models whose capability is unknown are excluded.`,
		Example: `  whichllm list                              # All models
  whichllm list --creator openai             # Models by one creator
  whichllm list --filter 'gpt-4*'            # Glob on the model slug
  whichllm list --capability tool_call -o wide
  whichllm list --confidence unmatched       # Models without capability data`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.listModels(cmd, flags)
		},
	}

	cmd.Flags().StringVar(&flags.filter, "filter", "", "glob pattern matched against the model key (creator/slug) and slug")
	cmd.Flags().BoolVar(&flags.regex, "regex", false, "treat --filter as a regular expression")
	cmd.Flags().StringVar(&flags.creator, "creator", "", "filter by creator slug")
	cmd.Flags().StringVar(&flags.capability, "capability", "",
		"filter by capability ("+strings.Join(filter.Capabilities(), ", ")+")")
	cmd.Flags().StringVar(&flags.confidence, "confidence", "", "filter by match confidence (exact, fuzzy, unmatched)")
	cmd.Flags().Int64Var(&flags.minContext, "min-context", 0, "minimum context window size")
	cmd.Flags().Float64Var(&flags.maxPrice, "max-price", 0, "maximum input price per 1M tokens")
	cmd.Flags().Float64Var(&flags.minIntelligence, "min-intelligence", 0, "minimum intelligence index")
	cmd.Flags().StringVar(&flags.search, "search", "", "case-insensitive search in name, slug and creator")
	cmd.Flags().IntVar(&flags.limit, "limit", 0, "maximum number of models to show")

	return cmd
}

// listModels loads, filters and prints the merged view.
func (a *App) listModels(cmd *cobra.Command, flags *listFlags) error {
	modelFilter := &filter.ModelFilter{
		Creator:         flags.creator,
		Capability:      flags.capability,
		Confidence:      matcher.Confidence(strings.ToLower(flags.confidence)),
		MinContext:      flags.minContext,
		MaxPrice:        flags.maxPrice,
		MinIntelligence: flags.minIntelligence,
		Search:          flags.search,
	}
	if flags.filter != "" {
		typ := pattern.Glob
		if flags.regex {
			typ = pattern.Regex
		}
		m, err := pattern.New(typ, flags.filter)
		if err != nil {
			return err
		}
		modelFilter.Pattern = m
	}
	if err := modelFilter.Validate(); err != nil {
		return err
	}

	format, err := output.ParseFormat(a.config.Format)
	if err != nil {
		return err
	}
	format = output.DetectFormat(string(format))

	client, err := a.Client()
	if err != nil {
		return err
	}
	all, err := client.Models()
	if err != nil {
		return err
	}

	filtered := modelFilter.Apply(all)
	if flags.limit > 0 && len(filtered) > flags.limit {
		filtered = filtered[:flags.limit]
	}

	var data any = filtered
	if format.IsTable() {
		data = table.Models(filtered, format == output.FormatWide)
	}

	if !a.config.Quiet {
		fmt.Fprintf(cmd.ErrOrStderr(), "Found %d models\n", len(filtered))
	}

	return output.NewFormatter(format).Format(cmd.OutOrStdout(), data)
}
