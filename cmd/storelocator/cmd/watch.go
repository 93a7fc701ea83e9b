package cmd

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"storelocator/internal/pipeline"
	"storelocator/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Pivot new exports dropped into the watch directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		backfill, _ := cmd.Flags().GetBool("backfill")

		handler := func(path string) {
			base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			out := dataPath(base + "_pivoted.csv")
			if _, err := pipeline.RunPivot(ctx, deps, path, out); err != nil {
				deps.Log.Error().Err(err).Str("file", path).Msg("pivot failed")
			}
		}

		w := watch.New(deps.Cfg.WatchDir, handler, deps.Log)
		if backfill {
			if err := w.Backfill(); err != nil {
				return err
			}
		}
		if err := w.Start(ctx); err != nil {
			return err
		}
		deps.Log.Info().Str("dir", deps.Cfg.WatchDir).Msg("watching for exports")
		<-ctx.Done()
		return nil
	},
}

func init() {
	watchCmd.Flags().Bool("backfill", false, "also pivot exports already in the watch directory")
	rootCmd.AddCommand(watchCmd)
}
