// Package cmd defines the storelocator command tree: one subcommand
// per batch stage.
package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"storelocator/internal/config"
	"storelocator/internal/logging"
	"storelocator/internal/pipeline"
	"storelocator/internal/store"
)

var (
	deps       pipeline.Deps
	auditStore *store.Store
)

var rootCmd = &cobra.Command{
	Use:   "storelocator",
	Short: "Batch pipeline for the retail store-locator feed",
	Long: `storelocator cleans, deduplicates, geocodes, and publishes
spreadsheet-sourced retail location data as the JSON feed the map
widget consumes.

Stages run independently over flat CSV files:

  pivot      aggregate a raw point-of-sale export into one row per store
  reconcile  classify a new batch against the current and original datasets
  review     export a flagged-row list for human correction
  geocode    fill missing coordinates (re-entrant, rate-limited)
  enrich     fill missing phone numbers from a place-lookup service
  publish    emit the JSON feed for the map client
  watch      pivot new exports dropped into the watch directory`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		log := logging.New(cfg.LogLevel)
		deps = pipeline.Deps{Cfg: cfg, Log: log}

		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return fmt.Errorf("create data dir: %w", err)
		}

		if cfg.DBPath != "" && cfg.DBPath != "off" {
			if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
				log.Warn().Err(err).Msg("audit store dir unavailable")
				return nil
			}
			st, err := store.Open(cfg.DBPath)
			if err != nil {
				log.Warn().Err(err).Str("db", cfg.DBPath).Msg("audit store unavailable")
				return nil
			}
			auditStore = st
			deps.Audit = st
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if auditStore != nil {
			_ = auditStore.Close()
		}
	},
}

// Execute runs the command tree under a signal-aware context.
func Execute(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
	}
	return err
}
