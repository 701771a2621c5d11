package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/whichllm/internal/cmd/cost"
	"github.com/agentstation/whichllm/internal/cmd/output"
	"github.com/agentstation/whichllm/pkg/errors"
)

// NewCostCommand creates the cost command.
func (a *App) NewCostCommand() *cobra.Command {
	var (
		input    string
		outputs  string
		requests int64
		period   string
	)

	cmd := &cobra.Command{
		Use:     "cost <model> [model...]",
		GroupID: "core",
		Short:   "Estimate token costs for models",
		Long: `Cost prices a request of the given input and output token counts with
each selected model's per-million token prices. --requests multiplies the
request; --period daily or monthly treats the requests as a daily volume and
projects it over a 30-day month. The cheapest total is marked with "*".`,
		Example: `  whichllm cost gpt-4o-mini --input 2K --output 500
  whichllm cost gpt-4o claude-3-5-sonnet --input 1M --output 1M --requests 100 --period daily`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := costRequest(input, outputs, requests, period)
			if err != nil {
				return err
			}
			selected, format, err := a.selectModels(args)
			if err != nil {
				return err
			}

			estimates := make([]cost.Estimate, len(selected))
			for i := range selected {
				estimates[i] = cost.Calculate(&selected[i], req)
			}
			if !format.IsTable() {
				return output.NewFormatter(format).Format(cmd.OutOrStdout(), estimates)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s input / %s output tokens per request", cost.Tokens(req.InputTokens), cost.Tokens(req.OutputTokens))
			if req.Requests > 1 {
				fmt.Fprintf(out, ", %d requests", req.Requests)
			}
			if req.Period != cost.Once {
				fmt.Fprint(out, " per day")
			}
			fmt.Fprintln(out)
			if err := output.NewFormatter(format).Format(out, cost.Table(estimates, req.Period)); err != nil {
				return err
			}
			if len(estimates) > 1 && cost.Cheapest(estimates) != nil {
				fmt.Fprintln(out, "\n* = lowest cost")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&input, "input", "1K", "input tokens per request (e.g. 1500, 2K, 1M)")
	cmd.Flags().StringVar(&outputs, "output", "1K", "output tokens per request")
	cmd.Flags().Int64Var(&requests, "requests", 1, "number of requests")
	cmd.Flags().StringVar(&period, "period", string(cost.Once), "projection period: once, daily, monthly")
	return cmd
}

func costRequest(input, outputs string, requests int64, period string) (cost.Request, error) {
	in, err := cost.ParseTokens(input)
	if err != nil {
		return cost.Request{}, err
	}
	out, err := cost.ParseTokens(outputs)
	if err != nil {
		return cost.Request{}, err
	}
	if requests < 1 {
		return cost.Request{}, errors.NewValidationError("requests", requests, "must be at least 1")
	}
	p, err := cost.ParsePeriod(period)
	if err != nil {
		return cost.Request{}, err
	}
	return cost.Request{InputTokens: in, OutputTokens: out, Requests: requests, Period: p}, nil
}
