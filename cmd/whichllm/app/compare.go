package app

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentstation/whichllm/internal/cmd/compare"
	"github.com/agentstation/whichllm/internal/cmd/filter"
	"github.com/agentstation/whichllm/internal/cmd/output"
	"github.com/agentstation/whichllm/pkg/errors"
	"github.com/agentstation/whichllm/pkg/models"
)

// NewCompareCommand creates the compare command.
func (a *App) NewCompareCommand() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:     "compare <model> <model> [model...]",
		GroupID: "core",
		Short:   "Compare models side by side",
		Long: `Compare shows the selected models from the merged view next to each
other and marks the best value of every benchmark, price and speed column
with "*". Each argument is a substring of the model slug or name.`,
		Example: `  whichllm compare gpt-4o claude-3-5-sonnet
  whichllm compare o3 gemini-2.5-pro --all -o json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			selected, format, err := a.selectModels(args)
			if err != nil {
				return err
			}
			if len(selected) < 2 {
				return errors.NewValidationError("models", args,
					"need at least 2 models to compare, try broader search terms")
			}

			res := compare.Compare(selected, compare.Attributes(verbose))
			if !format.IsTable() {
				return output.NewFormatter(format).Format(cmd.OutOrStdout(), res)
			}
			if err := output.NewFormatter(format).Format(cmd.OutOrStdout(), res.Table()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "\n* = best in category")
			return nil
		},
	}

	cmd.Flags().BoolVar(&verbose, "all", false, "include every individual benchmark score")
	return cmd
}

// selectModels loads the merged view and picks the models matching searches.
func (a *App) selectModels(searches []string) ([]models.Model, output.Format, error) {
	format, err := output.ParseFormat(a.config.Format)
	if err != nil {
		return nil, "", err
	}
	format = output.DetectFormat(string(format))

	client, err := a.Client()
	if err != nil {
		return nil, "", err
	}
	all, err := client.Models()
	if err != nil {
		return nil, "", err
	}

	selected := filter.ByNames(all, searches)
	if len(selected) == 0 {
		return nil, "", errors.NewNotFoundError("model", strings.Join(searches, ", "))
	}
	return selected, format, nil
}
