package cmd

import (
	"encoding/json"
	"errors"
	"os"

	"github.com/spf13/cobra"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recent stage runs from the bookkeeping ledger",
	RunE: func(cmd *cobra.Command, args []string) error {
		if auditStore == nil {
			return errors.New("bookkeeping ledger is disabled (set DB_PATH)")
		}
		limit, _ := cmd.Flags().GetInt("limit")
		runs, err := auditStore.ListRuns(cmd.Context(), limit)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	},
}

var historyCmd = &cobra.Command{
	Use:   "history <key>",
	Short: "Show every recorded classification of a composite key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if auditStore == nil {
			return errors.New("bookkeeping ledger is disabled (set DB_PATH)")
		}
		cs, err := auditStore.KeyHistory(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(cs)
	},
}

func init() {
	runsCmd.Flags().Int("limit", 20, "maximum runs to list")
	rootCmd.AddCommand(runsCmd, historyCmd)
}
