package cmd

import (
	"fmt"

	"github.com/runar-rkmedia/termkit/strutil"
	"github.com/spf13/cobra"
)

var (
	truncateFlagFrom  string
	truncateFlagWidth int
)

var truncateCmd = &cobra.Command{
	Use:   "truncate --width N <text>",
	Short: "Truncate text to a display width",
	Long: `Cut text down to at most N terminal columns.

--from left keeps the start of the text, --from right keeps the end. A wide
character that does not fit entirely is dropped, never split.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var out string
		switch truncateFlagFrom {
		case "left":
			out = strutil.TruncateLeft(args[0], truncateFlagWidth)
		case "right":
			out = strutil.TruncateRight(args[0], truncateFlagWidth)
		default:
			return fmt.Errorf("--from: invalid value %q (want left or right)", truncateFlagFrom)
		}
		return writeLine(cmd, out)
	},
}

func init() {
	truncateCmd.Flags().StringVar(&truncateFlagFrom, "from", "left", "Edge to keep: left or right")
	truncateCmd.Flags().IntVarP(&truncateFlagWidth, "width", "w", 0, "Maximum width in columns")
	_ = truncateCmd.MarkFlagRequired("width")
	_ = truncateCmd.RegisterFlagCompletionFunc("from", completeValues("left", "right"))
	rootCmd.AddCommand(truncateCmd)
}
