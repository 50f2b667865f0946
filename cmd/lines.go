package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/runar-rkmedia/termkit/strutil"
	"github.com/spf13/cobra"
)

var (
	linesFlagMaxWidth  int
	linesFlagShowWidth bool
)

var linesCmd = &cobra.Command{
	Use:   "lines",
	Short: "Echo lines read from stdin",
	Long: `Read lines from stdin until end of input and echo them, decoded with the
terminal encoding.

--max-width truncates every line to that many columns; --show-width prefixes
each line with its display width.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		h := newHandler(cmd)
		for {
			line, err := h.Gets()
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return err
			}

			if linesFlagMaxWidth > 0 {
				line = strutil.TruncateLeft(line, linesFlagMaxWidth)
			}
			if linesFlagShowWidth {
				line = fmt.Sprintf("%d\t%s", strutil.Width(line), line)
			}
			if err := writeLine(cmd, line); err != nil {
				return err
			}
		}
	},
}

func init() {
	linesCmd.Flags().IntVar(&linesFlagMaxWidth, "max-width", 0, "Truncate lines to N columns (0 = no limit)")
	linesCmd.Flags().BoolVar(&linesFlagShowWidth, "show-width", false, "Prefix each line with its display width")
	rootCmd.AddCommand(linesCmd)
}
