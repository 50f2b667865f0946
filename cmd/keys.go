package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/runar-rkmedia/termkit/git"
	"github.com/runar-rkmedia/termkit/history"
	"github.com/runar-rkmedia/termkit/term"
	"github.com/spf13/cobra"
)

var (
	keysFlagCount  int
	keysFlagRecord bool
)

// keyQuit and keyInterrupt end a keys session.
const (
	keyQuit      = "q"
	keyInterrupt = "\x03"
)

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Read keystrokes and show how they are decoded",
	Long: `Read single keystrokes from the terminal and print each one.

Repeated keys within --repeat-threshold are reported as suppressed, bytes
outside 7-bit ASCII as invalid. Reading stops on q, Ctrl-C, end of input or
after --count accepted keys. When stdin is not a terminal, each line counts
as one keystroke (its first character).

With --record (or history.enabled in config) every keystroke is stored in the
history database.`,
	Args: cobra.NoArgs,
	RunE: runKeys,
}

func init() {
	keysCmd.Flags().IntVarP(&keysFlagCount, "count", "n", 0, "Stop after N accepted keys (0 = no limit)")
	keysCmd.Flags().BoolVar(&keysFlagRecord, "record", false, "Record keystrokes in the history database")
	rootCmd.AddCommand(keysCmd)
}

func runKeys(cmd *cobra.Command, args []string) error {
	h := newHandler(cmd)
	defer h.Restore()

	stop := h.RestoreOnSignal(func(sig os.Signal) {
		term.Warn("\n%s: terminal restored", sig)
		os.Exit(130)
	}, shutdownSignals...)
	defer stop()

	var hist *history.DB
	if keysFlagRecord || GetConfig().History.Enabled {
		db, err := openHistory()
		if err != nil {
			return err
		}
		defer db.Close()
		hist = db
	}
	session := history.NewSession(time.Now())

	if h.GetchEnabled() {
		term.Info("Press keys (q or Ctrl-C to quit)...")
	}

	out := cmd.OutOrStdout()
	accepted := 0
	for keysFlagCount <= 0 || accepted < keysFlagCount {
		k, err := h.ReadKey()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}

		if hist != nil {
			ev := history.Event{
				Time:       k.Time,
				Session:    session,
				Key:        k.Text,
				Raw:        k.Raw,
				Accepted:   !k.Suppressed && !k.Invalid,
				Suppressed: k.Suppressed,
			}
			if err := hist.Record(ev); err != nil {
				term.Warnf("recording key: %v", err)
			}
		}

		switch {
		case k.Invalid:
			fmt.Fprintf(out, "invalid\t% x\n", k.Raw)
		case k.Suppressed:
			fmt.Fprintf(out, "repeat\t%q\n", k.Raw)
		default:
			fmt.Fprintf(out, "key\t%q\n", k.Text)
			accepted++
		}

		if k.Text == keyQuit || k.Text == keyInterrupt {
			break
		}
	}

	if hist != nil {
		term.Verbose("recorded session %s in %s", session, hist.Path())
	}
	return nil
}

// openHistory opens the history database configured for the current directory.
func openHistory() (*history.DB, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return history.Open(GetConfig().HistoryPath(git.RootOrDir(cwd)))
}
