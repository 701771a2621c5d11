package app

import (
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/agentstation/whichllm/internal/cmd/output"
	"github.com/agentstation/whichllm/internal/cmd/table"
	"github.com/agentstation/whichllm/pkg/errors"
	"github.com/agentstation/whichllm/pkg/fusion"
	"github.com/agentstation/whichllm/pkg/logging"
	"github.com/agentstation/whichllm/pkg/models"
	"github.com/agentstation/whichllm/pkg/records"
	"github.com/agentstation/whichllm/pkg/snapshot"
	"github.com/agentstation/whichllm/pkg/sources"
)

// NewRefreshCommand creates the refresh command.
func (a *App) NewRefreshCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:     "refresh",
		GroupID: "core",
		Short:   "Fetch both sources and rebuild the merged view",
		Long: `Refresh resolves the Artificial Analysis and models.dev snapshots and
rebuilds the merged view when either one changed.

The benchmark snapshot is fetched only when none is cached unless --force is
given. The capability snapshot is refetched once it is older than its
validity window. A failed fetch falls back to the cached snapshot and is
reported as a warning.`,
		Example: `  whichllm refresh           # Reuse snapshots that are still valid
  whichllm refresh --force   # Refetch benchmark data`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := a.Client()
			if err != nil {
				return err
			}

			ctx := logging.WithOperation(logging.WithLogger(cmd.Context(), a.logger), "refresh")
			result, err := client.Refresh(ctx, force)
			if err != nil {
				return err
			}

			for _, w := range result.Warnings {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", w)
			}

			format := output.DetectFormat(a.config.Format)
			if !format.IsTable() {
				return output.NewFormatter(format).Format(cmd.OutOrStdout(), result)
			}
			printRefresh(cmd.OutOrStdout(), result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "refetch benchmark data even when a snapshot exists")
	return cmd
}

// printRefresh writes a human readable run summary.
func printRefresh(w io.Writer, result *fusion.Result) {
	if result.Fused {
		fmt.Fprintf(w, "Fused %d models (run %s)\n", result.Models, result.RunID)
		fmt.Fprintf(w, "  matches: %d exact, %d fuzzy, %d unmatched\n",
			result.Matches.Exact, result.Matches.Fuzzy, result.Matches.Unmatched)
		if result.Matches.Ambiguous > 0 {
			fmt.Fprintf(w, "  ambiguous keys: %d\n", result.Matches.Ambiguous)
		}
	} else {
		fmt.Fprintf(w, "Merged view up to date (%d models)\n", result.Models)
	}
	for _, src := range []fusion.SourceResult{result.Primary, result.Secondary} {
		line := fmt.Sprintf("  %s: %s, %d records", src.Source, src.Outcome, src.Records)
		if src.Dropped > 0 {
			line += fmt.Sprintf(", %d dropped", src.Dropped)
		}
		if src.Stale {
			line += " (stale)"
		}
		fmt.Fprintln(w, line)
	}
}

// NewStatusCommand creates the status command.
func (a *App) NewStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "status",
		GroupID: "core",
		Short:   "Show cached snapshots and the merged view",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := a.Client()
			if err != nil {
				return err
			}

			order, metas := a.loadMetas(client.CacheDir())

			format := output.DetectFormat(a.config.Format)
			var data any = metas
			if format.IsTable() {
				data = table.Status(metas, order)
			}
			return output.NewFormatter(format).Format(cmd.OutOrStdout(), data)
		},
	}
}

// loadMetas reads the metadata of every artifact. Missing or unreadable
// artifacts map to nil.
func (a *App) loadMetas(dir string) ([]string, map[string]*snapshot.Meta) {
	loaders := []struct {
		name string
		load func() (*snapshot.Meta, error)
	}{
		{string(sources.ArtificialAnalysisID), snapshot.NewStore[records.Benchmark](dir, string(sources.ArtificialAnalysisID)).LoadMeta},
		{string(sources.ModelsDevID), snapshot.NewStore[records.Capability](dir, string(sources.ModelsDevID)).LoadMeta},
		{fusion.MergedArtifact, snapshot.NewStore[models.Row](dir, fusion.MergedArtifact).LoadMeta},
	}

	order := make([]string, 0, len(loaders))
	metas := make(map[string]*snapshot.Meta, len(loaders))
	for _, l := range loaders {
		order = append(order, l.name)
		meta, err := l.load()
		if err != nil && !errors.IsNotFound(err) {
			a.logger.Warn().Err(err).Str("artifact", l.name).Msg("Unreadable artifact metadata")
		}
		metas[l.name] = meta
	}
	return order, metas
}

// NewCacheCommand creates the cache command and its subcommands.
func (a *App) NewCacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "cache",
		GroupID: "management",
		Short:   "Inspect or clear the local cache",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Show cache location and disk usage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := a.Client()
			if err != nil {
				return err
			}
			usage, err := client.CacheStats()
			if err != nil {
				return err
			}

			format := output.DetectFormat(a.config.Format)
			var data any = usage
			if format.IsTable() {
				data = table.Usage(usage)
			}
			return output.NewFormatter(format).Format(cmd.OutOrStdout(), data)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove every cached snapshot and the merged view",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := a.Client()
			if err != nil {
				return err
			}
			removed, err := client.ClearCache()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d files from %s\n", removed, client.CacheDir())
			return nil
		},
	})

	return cmd
}

// NewVersionCommand creates the version command.
func (a *App) NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "whichllm version %s\n", a.version)
			fmt.Fprintf(w, "commit: %s\n", a.commit)
			fmt.Fprintf(w, "built: %s\n", a.date)
			fmt.Fprintf(w, "built by: %s\n", a.builtBy)
			fmt.Fprintf(w, "go version: %s\n", runtime.Version())
			fmt.Fprintf(w, "platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}
