package cmd

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"storelocator/internal/pipeline"
)

func dataPath(name string) string {
	return filepath.Join(deps.Cfg.DataDir, name)
}

var pivotCmd = &cobra.Command{
	Use:   "pivot",
	Short: "Aggregate a raw point-of-sale export into one row per store",
	RunE: func(cmd *cobra.Command, args []string) error {
		in, _ := cmd.Flags().GetString("in")
		out, _ := cmd.Flags().GetString("out")
		if out == "" {
			out = dataPath("pivoted.csv")
		}
		_, err := pipeline.RunPivot(cmd.Context(), deps, in, out)
		return err
	},
}

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Classify a pivoted batch against the current and original datasets",
	RunE: func(cmd *cobra.Command, args []string) error {
		current, _ := cmd.Flags().GetString("current")
		original, _ := cmd.Flags().GetString("original")
		batch, _ := cmd.Flags().GetString("batch")
		outNew, _ := cmd.Flags().GetString("out-new")
		outBlocked, _ := cmd.Flags().GetString("out-blocked")
		if outNew == "" {
			outNew = dataPath("new_stores.csv")
		}
		if outBlocked == "" {
			outBlocked = dataPath("blocked.csv")
		}
		_, err := pipeline.RunReconcile(cmd.Context(), deps, current, original, batch, outNew, outBlocked)
		return err
	},
}

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Export flagged rows of the current dataset for human correction",
	RunE: func(cmd *cobra.Command, args []string) error {
		current, _ := cmd.Flags().GetString("current")
		out, _ := cmd.Flags().GetString("out")
		if out == "" {
			out = dataPath("review.csv")
		}
		_, err := pipeline.RunReview(cmd.Context(), deps, current, out)
		return err
	},
}

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Emit the JSON feed for the map client",
	RunE: func(cmd *cobra.Command, args []string) error {
		in, _ := cmd.Flags().GetString("in")
		out, _ := cmd.Flags().GetString("out")
		if out == "" {
			out = dataPath("stores.json")
		}
		_, err := pipeline.RunPublish(cmd.Context(), deps, in, out)
		return err
	},
}

var geocodeCmd = &cobra.Command{
	Use:   "geocode",
	Short: "Fill missing coordinates on the curated dataset (re-entrant)",
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		_, err := pipeline.RunGeocode(cmd.Context(), deps, file)
		return err
	},
}

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Fill missing phone numbers from the place-lookup service",
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		_, err := pipeline.RunEnrich(cmd.Context(), deps, file)
		return err
	},
}

func init() {
	pivotCmd.Flags().String("in", "", "raw point-of-sale export CSV")
	pivotCmd.Flags().String("out", "", "pivoted store table (default <data_dir>/pivoted.csv)")
	_ = pivotCmd.MarkFlagRequired("in")

	reconcileCmd.Flags().String("current", "", "currently published store table CSV")
	reconcileCmd.Flags().String("original", "", "original historical import CSV")
	reconcileCmd.Flags().String("batch", "", "newly pivoted batch CSV")
	reconcileCmd.Flags().String("out-new", "", "genuinely-new stores CSV (default <data_dir>/new_stores.csv)")
	reconcileCmd.Flags().String("out-blocked", "", "blocked audit report CSV (default <data_dir>/blocked.csv)")
	_ = reconcileCmd.MarkFlagRequired("current")
	_ = reconcileCmd.MarkFlagRequired("original")
	_ = reconcileCmd.MarkFlagRequired("batch")

	reviewCmd.Flags().String("current", "", "currently published store table CSV")
	reviewCmd.Flags().String("out", "", "review list CSV (default <data_dir>/review.csv)")
	_ = reviewCmd.MarkFlagRequired("current")

	publishCmd.Flags().String("in", "", "curated, geocoded store table CSV")
	publishCmd.Flags().String("out", "", "JSON feed (default <data_dir>/stores.json)")
	_ = publishCmd.MarkFlagRequired("in")

	geocodeCmd.Flags().String("file", "", "store table CSV to geocode in place")
	_ = geocodeCmd.MarkFlagRequired("file")

	enrichCmd.Flags().String("file", "", "store table CSV to enrich in place")
	_ = enrichCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(pivotCmd, reconcileCmd, reviewCmd, publishCmd, geocodeCmd, enrichCmd)
}
