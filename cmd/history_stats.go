package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var historyStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show history statistics",
	Long:  `Display statistics about the keystroke history including size, events, and age.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openHistory()
		if err != nil {
			return err
		}
		defer db.Close()

		stats := db.Stats()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "History statistics:\n")
		fmt.Fprintf(out, "  Database: %s\n", db.Path())
		fmt.Fprintf(out, "  Size: %d bytes (%.2f KB)\n", stats.DBSize, float64(stats.DBSize)/1024)
		fmt.Fprintf(out, "  Sessions: %d\n", stats.Sessions)
		fmt.Fprintf(out, "  Events: %d (%d accepted, %d suppressed)\n", stats.TotalEvents, stats.Accepted, stats.Suppressed)
		if stats.TotalEvents > 0 {
			fmt.Fprintf(out, "  Oldest event: %s\n", stats.OldestEvent.Format(time.RFC3339))
			fmt.Fprintf(out, "  Newest event: %s\n", stats.NewestEvent.Format(time.RFC3339))
		}
		return nil
	},
}

func init() {
	historyCmd.AddCommand(historyStatsCmd)
}
