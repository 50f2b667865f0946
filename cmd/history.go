package cmd

import (
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Keystroke history operations",
	Long:  `Inspect and prune the keystroke history recorded by "termkit keys --record".`,
}

func init() {
	rootCmd.AddCommand(historyCmd)
}
