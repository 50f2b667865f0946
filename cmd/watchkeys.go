package cmd

import (
	"errors"
	"io"

	"github.com/runar-rkmedia/termkit/term"
)

// watchAction represents an action triggered by a keypress in watch mode.
type watchAction int

const (
	actionNone watchAction = iota
	actionRender
	actionHelp
	actionQuit
)

// mapKeyToAction maps a decoded keystroke to a watch action.
func mapKeyToAction(key string) watchAction {
	switch key {
	case "\r", "\n", "r":
		return actionRender
	case "q", keyInterrupt: // raw mode intercepts Ctrl-C
		return actionQuit
	case "h", "?":
		return actionHelp
	default:
		return actionNone
	}
}

// printWatchHelp prints the watch mode help menu.
func printWatchHelp() {
	term.Println()
	term.Info("Watch mode commands:")
	term.Dim("  Enter  Re-render now")
	term.Dim("  r      Re-render now")
	term.Dim("  h      Show this help")
	term.Dim("  q      Quit")
	term.Println()
}

// readWatchKeys forwards actions for accepted keystrokes until input ends.
// Suppressed repeats and invalid bytes are dropped.
func readWatchKeys(h *term.Handler, actions chan<- watchAction) {
	defer close(actions)
	for {
		k, err := h.ReadKey()
		if errors.Is(err, io.EOF) {
			return
		}
		if err != nil {
			term.Verbose("watch input: %v", err)
			return
		}
		if k.Suppressed || k.Invalid {
			continue
		}
		if a := mapKeyToAction(k.Text); a != actionNone {
			actions <- a
		}
	}
}
