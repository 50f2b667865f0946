package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/runar-rkmedia/termkit/strutil"
	"github.com/spf13/cobra"
)

var widthFlagBytes bool

var widthCmd = &cobra.Command{
	Use:   "width [text...]",
	Short: "Print the display width of text",
	Long: `Print the terminal column width of each argument, or of each line read
from stdin when no arguments are given.

East Asian wide, fullwidth and ambiguous characters count as two columns.
With --bytes, the length of the text encoded in the output encoding is
printed instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 {
			for _, s := range args {
				if err := printWidth(cmd, s); err != nil {
					return err
				}
			}
			return nil
		}

		h := newHandler(cmd)
		for {
			line, err := h.Gets()
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return err
			}
			if err := printWidth(cmd, line); err != nil {
				return err
			}
		}
	},
}

func init() {
	widthCmd.Flags().BoolVar(&widthFlagBytes, "bytes", false, "Print encoded byte length instead of column width")
	rootCmd.AddCommand(widthCmd)
}

func printWidth(cmd *cobra.Command, s string) error {
	w := strutil.Width(s)
	if widthFlagBytes {
		data, err := strutil.Encode(s, outputEncoding(cmd))
		if err != nil {
			return err
		}
		w = strutil.BytesWidth(data)
	}
	return writeLine(cmd, fmt.Sprintf("%d\t%s", w, s))
}
