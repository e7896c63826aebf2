package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/relayts/internal/config"
	"github.com/roach88/relayts/internal/store"
)

// CacheStats is the payload of `cache stats`.
type CacheStats struct {
	Path      string      `json:"path"`
	Stats     store.Stats `json:"stats"`
	LatestRun *store.Run  `json:"latest_run,omitempty"`
}

// NewCacheCommand creates the cache command group.
func NewCacheCommand(rootOpts *RootOptions) *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or prune the artifact cache",
	}
	cmd.PersistentFlags().StringVar(&path, "cache", "", "SQLite artifact cache path (default: cache from config)")

	stats := &cobra.Command{
		Use:           "stats",
		Short:         "Show cache contents",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCacheStats(rootOpts, path, cmd)
		},
	}

	var keep int
	prune := &cobra.Command{
		Use:           "prune",
		Short:         "Drop old runs and the artifacts only they used",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCachePrune(rootOpts, path, keep, cmd)
		},
	}
	prune.Flags().IntVar(&keep, "keep", 5, "number of most recent runs to keep")

	cmd.AddCommand(stats, prune)
	return cmd
}

// openCache resolves the cache path from the flag or config and opens it.
func openCache(opts *RootOptions, path string, formatter *OutputFormatter) (*store.Store, string, error) {
	if path == "" {
		cfg, err := config.Load(config.New(), opts.Config)
		if err != nil {
			_ = formatter.Error(ErrCodeConfig, err.Error(), nil)
			return nil, "", WrapExitError(ExitCommandError, ErrCodeConfig, err)
		}
		path = cfg.Cache
	}
	if path == "" {
		_ = formatter.Error(ErrCodeCache, "no cache configured", nil)
		return nil, "", NewExitError(ExitCommandError, "no cache configured; pass --cache or set cache in relayts.yaml")
	}
	s, err := store.Open(path)
	if err != nil {
		_ = formatter.Error(ErrCodeCache, err.Error(), nil)
		return nil, "", WrapExitError(ExitCommandError, ErrCodeCache, err)
	}
	return s, path, nil
}

func runCacheStats(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	s, path, err := openCache(opts, path, formatter)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := cmd.Context()
	st, err := s.Stats(ctx)
	if err != nil {
		_ = formatter.Error(ErrCodeCache, err.Error(), nil)
		return WrapExitError(ExitCommandError, ErrCodeCache, err)
	}
	result := CacheStats{Path: path, Stats: st}
	if run, ok, err := s.LatestRun(ctx); err != nil {
		_ = formatter.Error(ErrCodeCache, err.Error(), nil)
		return WrapExitError(ExitCommandError, ErrCodeCache, err)
	} else if ok {
		result.LatestRun = &run
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	fmt.Fprintf(formatter.Writer, "%s: %d run(s), %d artifact(s), %d entr(ies)\n",
		path, st.Runs, st.Artifacts, st.Entries)
	if result.LatestRun != nil {
		r := result.LatestRun
		fmt.Fprintf(formatter.Writer, "latest run %s: %d document(s), %d from cache\n", r.ID, r.Documents, r.Hits)
	}
	return nil
}

func runCachePrune(opts *RootOptions, path string, keep int, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	s, path, err := openCache(opts, path, formatter)
	if err != nil {
		return err
	}
	defer s.Close()

	removed, err := s.Prune(cmd.Context(), keep)
	if err != nil {
		_ = formatter.Error(ErrCodeCache, err.Error(), nil)
		return WrapExitError(ExitCommandError, ErrCodeCache, err)
	}
	if formatter.Format == "json" {
		return formatter.Success(map[string]any{"path": path, "removed": removed, "kept_runs": keep})
	}
	fmt.Fprintf(formatter.Writer, "✓ Removed %d artifact(s) from %s\n", removed, path)
	return nil
}
