package cmd

import (
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/runar-rkmedia/termkit/strutil"
	"github.com/runar-rkmedia/termkit/term"
	"github.com/spf13/cobra"
)

var (
	justifyFlagLeft       string
	justifyFlagRight      string
	justifyFlagWidth      int
	justifyFlagFill       string
	justifyFlagMinPadding int
)

var justifyCmd = &cobra.Command{
	Use:   "justify [--left L] [--right R]",
	Short: "Justify text to a display width",
	Long: `Join --left and --right with fill characters so the result spans --width
columns (default: the terminal width). At least --min-padding fill characters
are always inserted, so overlong text is never cut.

The fill character must be exactly one column wide.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fill, size := utf8.DecodeRuneInString(justifyFlagFill)
		if size == 0 || size != len(justifyFlagFill) {
			return fmt.Errorf("--fill: want exactly one character, got %q", justifyFlagFill)
		}

		width := justifyFlagWidth
		if width <= 0 {
			width = term.Columns(os.Stdout.Fd())
		}

		out, err := strutil.Justify(justifyFlagLeft, justifyFlagRight, width, fill, justifyFlagMinPadding)
		if err != nil {
			return err
		}
		return writeLine(cmd, out)
	},
}

func init() {
	justifyCmd.Flags().StringVarP(&justifyFlagLeft, "left", "l", "", "Text on the left edge")
	justifyCmd.Flags().StringVarP(&justifyFlagRight, "right", "r", "", "Text on the right edge")
	justifyCmd.Flags().IntVarP(&justifyFlagWidth, "width", "w", 0, "Total width in columns (0 = terminal width)")
	justifyCmd.Flags().StringVar(&justifyFlagFill, "fill", " ", "Fill character")
	justifyCmd.Flags().IntVar(&justifyFlagMinPadding, "min-padding", 1, "Minimum number of fill characters")
	rootCmd.AddCommand(justifyCmd)
}
