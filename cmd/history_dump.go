package cmd

import (
	"fmt"
	"time"

	"github.com/runar-rkmedia/termkit/history"
	"github.com/runar-rkmedia/termkit/term"
	"github.com/spf13/cobra"
)

var historyDumpCmd = &cobra.Command{
	Use:   "dump [session]",
	Short: "Dump recorded keystrokes",
	Long: `Print recorded keystrokes, one per line, for one session or for all of
them. Without an argument the available sessions are listed first.`,
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completeSessions,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openHistory()
		if err != nil {
			return err
		}
		defer db.Close()

		session := ""
		if len(args) == 1 {
			session = args[0]
		} else {
			term.Dim("sessions: %v", db.Sessions())
		}

		out := cmd.OutOrStdout()
		found := false
		err = db.ViewSession(session, func(e history.Event) error {
			found = true
			status := "key"
			switch {
			case e.Suppressed:
				status = "repeat"
			case !e.Accepted:
				status = "invalid"
			}
			_, err := fmt.Fprintf(out, "%s\t%s\t%s\t%q\t% x\n", e.Session, e.Time.Format(time.RFC3339Nano), status, e.Key, e.Raw)
			return err
		})
		if err != nil {
			return err
		}

		if !found && session != "" {
			return fmt.Errorf("no history found for session %q", session)
		}
		return nil
	},
}

func init() {
	historyCmd.AddCommand(historyDumpCmd)
}
