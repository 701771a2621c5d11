package whichllm

import (
	"context"

	"github.com/agentstation/whichllm/pkg/errors"
	"github.com/agentstation/whichllm/pkg/fusion"
	"github.com/agentstation/whichllm/pkg/logging"
	"github.com/agentstation/whichllm/pkg/models"
)

// Compile-time interface check to ensure proper implementation.
var _ Refresher = (*client)(nil)

// Refresher runs the fetch and fusion pipeline.
type Refresher interface {
	// Refresh resolves both source snapshots and rebuilds the merged view
	// when either changed. force refetches the primary source, which is
	// otherwise only fetched when no snapshot exists.
	Refresh(ctx context.Context, force bool) (*fusion.Result, error)
}

// Refresh runs one orchestrator pass and fires hooks when the merged view
// changed.
func (c *client) Refresh(ctx context.Context, force bool) (*fusion.Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	var before []models.Model
	if c.hooks.active() {
		var err error
		before, err = c.Models()
		if err != nil && !errors.IsNotFound(err) {
			logging.FromContext(ctx).Debug().Err(err).Msg("No readable merged view before refresh")
		}
	}

	result, err := c.orchestrator.Run(ctx, force)
	if err != nil {
		return nil, err
	}

	for _, w := range result.Warnings {
		logging.FromContext(ctx).Warn().Err(w).Msg("Refresh completed with warning")
	}

	if result.Fused && c.hooks.active() {
		after, err := c.Models()
		if err != nil {
			return result, errors.WrapResource("load", "merged view", "", err)
		}
		c.hooks.trigger(before, after, result)
	}
	return result, nil
}
