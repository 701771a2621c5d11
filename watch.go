package whichllm

import (
	"context"
	stderrors "errors"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/agentstation/whichllm/pkg/constants"
	"github.com/agentstation/whichllm/pkg/errors"
	"github.com/agentstation/whichllm/pkg/logging"
)

// Compile-time interface check to ensure proper implementation.
var _ Watcher = (*client)(nil)

// Watcher runs scheduled refreshes.
type Watcher interface {
	// Watch refreshes on the given cron schedule until ctx is canceled.
	// Scheduled runs never force a primary refetch.
	Watch(ctx context.Context, schedule string) error
}

// Watch refreshes on schedule until ctx is canceled. A tick that fires while
// the previous refresh is still running is skipped.
func (c *client) Watch(ctx context.Context, schedule string) error {
	if schedule == "" {
		schedule = constants.DefaultRefreshSchedule
	}
	logger := logging.FromContext(ctx)

	cronLog := cronLogger{logger: logger}
	scheduler := cron.New(
		cron.WithLogger(cronLog),
		cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
	)
	if _, err := scheduler.AddFunc(schedule, func() { c.tick(ctx) }); err != nil {
		return &errors.ValidationError{
			Field:   "schedule",
			Value:   schedule,
			Message: err.Error(),
		}
	}

	logger.Info().Str("schedule", schedule).Str("cache_dir", c.options.cacheDir).Msg("Watching for updates")
	scheduler.Start()

	<-ctx.Done()
	stopped := scheduler.Stop()
	<-stopped.Done()

	logger.Info().Msg("Watch stopped")
	return nil
}

// tick runs one scheduled refresh bounded by RefreshContextTimeout.
func (c *client) tick(parent context.Context) {
	ctx, cancel := context.WithTimeout(parent, constants.RefreshContextTimeout)
	defer cancel()

	result, err := c.Refresh(ctx, false)
	if err != nil {
		if stderrors.Is(err, context.Canceled) {
			return
		}
		logging.FromContext(ctx).Error().Err(err).Msg("Scheduled refresh failed")
		return
	}
	logging.FromContext(ctx).Info().
		Bool("fused", result.Fused).
		Int("models", result.Models).
		Int("warnings", len(result.Warnings)).
		Msg("Scheduled refresh finished")
}

// cronLogger adapts zerolog to the cron.Logger interface.
type cronLogger struct {
	logger *zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
