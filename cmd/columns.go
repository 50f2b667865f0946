package cmd

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/runar-rkmedia/termkit/strutil"
	"github.com/runar-rkmedia/termkit/term"
	"github.com/spf13/cobra"
)

var (
	columnsFlagWidth int
	columnsFlagWatch bool
)

var columnsCmd = &cobra.Command{
	Use:   "columns <file>",
	Short: "Render left<TAB>right lines as justified columns",
	Long: `Read a file of lines shaped "left<TAB>right" and print each with the left
part flush left and the right part flush right across --width columns
(default: the terminal width). Lines without a tab are printed as is.

The file is decoded with the terminal encoding, falling back to UTF-8.
With --watch the file is re-rendered on every change.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		width := columnsFlagWidth
		if width <= 0 {
			width = term.Columns(os.Stdout.Fd())
		}

		if err := renderColumns(cmd.OutOrStdout(), outputEncoding(cmd), path, width); err != nil {
			return err
		}
		if !columnsFlagWatch {
			return nil
		}
		return watchColumns(cmd, path, width)
	},
}

func init() {
	columnsCmd.Flags().IntVarP(&columnsFlagWidth, "width", "w", 0, "Total width in columns (0 = terminal width)")
	columnsCmd.Flags().BoolVar(&columnsFlagWatch, "watch", false, "Re-render when the file changes")
	rootCmd.AddCommand(columnsCmd)
}

// formatColumns justifies every left<TAB>right line of data to width.
func formatColumns(data []byte, enc string, width int) []string {
	text, err := strutil.DecodeAny(data, enc, "utf-8")
	if err != nil {
		text = strutil.DecodeLenient(data, enc)
	}

	var rows []string
	sc := bufio.NewScanner(strings.NewReader(text))
	for sc.Scan() {
		line := strings.TrimSuffix(sc.Text(), "\r")
		left, right, ok := strings.Cut(line, "\t")
		if !ok {
			rows = append(rows, line)
			continue
		}
		rows = append(rows, strutil.EdgeJust(left, right, width))
	}
	return rows
}

func renderColumns(w io.Writer, enc, path string, width int) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	for _, row := range formatColumns(data, enc, width) {
		if err := strutil.WriteSafe(&buf, row, enc, "\n"); err != nil {
			return err
		}
	}
	_, err = w.Write(buf.Bytes())
	return err
}

// watchColumns re-renders path after changes settle, until a shutdown signal
// or q. The key reader holds stdin in raw mode between keystrokes, so output
// goes through term.Wrap to keep line starts in place.
func watchColumns(cmd *cobra.Command, path string, width int) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	// Editors often replace the file, so watch its directory.
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	h := newHandler(cmd)
	defer h.Restore()
	out := term.Wrap(cmd.OutOrStdout())
	enc := outputEncoding(cmd)
	term.Info("Watching %s for changes (Ctrl+C to stop)...", path)

	var actions chan watchAction
	if h.GetchEnabled() {
		actions = make(chan watchAction, 1)
		go readWatchKeys(h, actions)
		term.Dim("Press h for help, q to quit")
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, shutdownSignals...)
	defer signal.Stop(sigChan)

	debounce := time.Duration(GetConfig().Watch.DebounceMs) * time.Millisecond
	var debounceTimer *time.Timer
	var renderMu sync.Mutex

	rerender := func() {
		renderMu.Lock()
		defer renderMu.Unlock()
		if err := h.Clear(); err != nil {
			term.Verbose("clear: %v", err)
		}
		if err := renderColumns(out, enc, path, width); err != nil {
			term.Errorf("%v", err)
		}
	}

	for {
		select {
		case <-sigChan:
			term.Dim("\nStopping watch mode...")
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return nil

		case a, ok := <-actions:
			if !ok {
				actions = nil
				continue
			}
			switch a {
			case actionQuit:
				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				return nil
			case actionHelp:
				printWatchHelp()
			case actionRender:
				rerender()
			}

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			// Only care about writes and creates of the watched file
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 || filepath.Clean(event.Name) != abs {
				continue
			}
			term.Verbose("  changed: %s", event.Name)

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounce, rerender)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			term.Errorf("watcher: %v", err)
		}
	}
}
