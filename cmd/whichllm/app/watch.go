package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentstation/whichllm/internal/metrics"
	"github.com/agentstation/whichllm/pkg/constants"
	"github.com/agentstation/whichllm/pkg/logging"
)

// NewWatchCommand creates the watch command.
func (a *App) NewWatchCommand() *cobra.Command {
	var (
		schedule    string
		metricsAddr string
		skipInitial bool
	)

	cmd := &cobra.Command{
		Use:     "watch",
		GroupID: "core",
		Short:   "Refresh on a schedule until interrupted",
		Long: `Watch runs a refresh immediately and then on a cron schedule until the
process receives SIGINT or SIGTERM. Scheduled runs never force a benchmark
refetch, so the schedule mostly keeps the capability snapshot current.

With --metrics-addr, Prometheus metrics are served at /metrics.`,
		Example: `  whichllm watch
  whichllm watch --schedule '*/30 * * * *' --metrics-addr :9090`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("schedule") {
				schedule = a.config.RefreshSchedule
			}
			if !cmd.Flags().Changed("metrics-addr") {
				metricsAddr = a.config.MetricsAddr
			}
			return a.watch(cmd.Context(), schedule, metricsAddr, skipInitial)
		},
	}

	cmd.Flags().StringVar(&schedule, "schedule", constants.DefaultRefreshSchedule, "cron schedule or descriptor such as @hourly or @every 30m")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "address to serve Prometheus metrics on, e.g. :9090")
	cmd.Flags().BoolVar(&skipInitial, "skip-initial", false, "wait for the first scheduled tick instead of refreshing at start")

	return cmd
}

// watch runs the scheduler and the optional metrics server until ctx ends.
func (a *App) watch(ctx context.Context, schedule, metricsAddr string, skipInitial bool) error {
	client, err := a.Client()
	if err != nil {
		return err
	}

	ctx = logging.WithOperation(logging.WithLogger(ctx, a.logger), "watch")

	if metricsAddr != "" {
		server := &http.Server{
			Addr:              metricsAddr,
			Handler:           metricsMux(),
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			a.logger.Info().Str("addr", metricsAddr).Msg("Serving metrics")
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				a.logger.Error().Err(err).Msg("Metrics server failed")
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				a.logger.Error().Err(err).Msg("Metrics server shutdown failed")
			}
		}()
	}

	if !skipInitial {
		result, err := client.Refresh(ctx, false)
		if err != nil {
			a.logger.Error().Err(err).Msg("Initial refresh failed")
		} else {
			a.logger.Info().Bool("fused", result.Fused).Int("models", result.Models).Msg("Initial refresh complete")
		}
	}

	return client.Watch(ctx, schedule)
}

func metricsMux() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})
	return mux
}
