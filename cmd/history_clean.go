package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var historyCleanOlderThan int

var historyCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Clean old history events",
	Long: `Remove keystroke events older than the specified number of days.

By default, removes events older than 30 days.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if historyCleanOlderThan < 0 {
			return fmt.Errorf("--older-than: must not be negative, got %d", historyCleanOlderThan)
		}

		db, err := openHistory()
		if err != nil {
			return err
		}
		defer db.Close()

		maxAge := time.Duration(historyCleanOlderThan) * 24 * time.Hour
		deleted, err := db.DeleteOlderThan(maxAge)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d events older than %d days\n", deleted, historyCleanOlderThan)
		return nil
	},
}

func init() {
	historyCleanCmd.Flags().IntVar(&historyCleanOlderThan, "older-than", 30, "Remove events older than N days")
	historyCmd.AddCommand(historyCleanCmd)
}
