package cmd

import (
	"github.com/runar-rkmedia/termkit/term"
	"github.com/spf13/cobra"
)

var clearFlagInput bool

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the screen",
	Long: `Clear the screen using the command for the detected terminal type. Nothing
happens when stdout is not a terminal (except under mintty).

With --input, keystrokes queued on stdin are discarded as well.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		h := newHandler(cmd)
		if err := h.Clear(); err != nil {
			term.Verbose("clear (%s): %v", h.Type(), err)
		}
		if clearFlagInput {
			h.ClearInputBuffer()
		}
		return nil
	},
}

func init() {
	clearCmd.Flags().BoolVar(&clearFlagInput, "input", false, "Also discard pending keyboard input")
	rootCmd.AddCommand(clearCmd)
}
