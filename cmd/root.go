// Package cmd implements the CLI commands for termkit.
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/runar-rkmedia/termkit/config"
	"github.com/runar-rkmedia/termkit/git"
	"github.com/runar-rkmedia/termkit/strutil"
	"github.com/runar-rkmedia/termkit/term"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagVerbose         bool
	flagQuiet           bool
	flagColor           string
	flagDir             string
	flagConfigFile      string
	flagTermType        string
	flagEncoding        string
	flagRepeatThreshold config.Duration
	flagKeepInputClean  bool

	// Loaded configuration
	cfg *config.Config

	// handlerConsole replaces the native console in handlers; nil in production.
	handlerConsole term.Console
)

// rootCmd is the base command when called without subcommands.
var rootCmd = &cobra.Command{
	Use:   "termkit",
	Short: "Display-width aware text and terminal input tools",
	Long: `termkit - Display-width aware text and terminal input tools

Measures, truncates and justifies text by terminal column width (East Asian
wide characters count as two columns), and reads single keystrokes or lines
from the terminal with raw-mode handling and key-repeat suppression.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Handle -C flag (change directory)
		if flagDir != "" {
			if err := os.Chdir(flagDir); err != nil {
				return fmt.Errorf("changing to directory %s: %w", flagDir, err)
			}
		}

		// Get current working directory
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting working directory: %w", err)
		}

		// Find git root (may be empty if not in a git repo)
		gitRoot, _ := git.FindRootFrom(cwd)

		// Load configuration
		result, err := config.Load(config.LoadOptions{
			CWD:        cwd,
			GitRoot:    gitRoot,
			ConfigFile: flagConfigFile,
			Verbose:    flagVerbose,
		})
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		cfg = result.Config

		// Apply flag overrides to config
		applyFlagOverrides(cmd)

		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		// Initialize terminal settings
		term.SetVerbose(cfg.Verbose)
		term.SetQuiet(cfg.Quiet)
		mode, _ := term.ParseColorMode(cfg.Color)
		term.SetColorMode(mode)

		term.Verbose("config sources: %v", result.Sources)
		return nil
	},
	// Silence usage on errors (we handle our own error messages)
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	flagRepeatThreshold = config.Duration(term.DefaultRepeatThreshold)

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Quiet mode - suppress informational output")
	rootCmd.PersistentFlags().StringVar(&flagColor, "color", "", "Color output mode: auto, always, never")
	rootCmd.PersistentFlags().StringVarP(&flagDir, "dir", "C", "", "Change to directory before running")
	rootCmd.PersistentFlags().StringVar(&flagConfigFile, "config", "", "Config file path (overrides auto-discovery)")
	rootCmd.PersistentFlags().StringVar(&flagTermType, "term-type", "", "Terminal type: posix, nt, cygwin, mintty (default: detect)")
	rootCmd.PersistentFlags().StringVar(&flagEncoding, "encoding", "", "Terminal encoding, e.g. utf-8, shift_jis (default: detect)")
	rootCmd.PersistentFlags().Var(durationValue{&flagRepeatThreshold}, "repeat-threshold", "Drop a repeated key within this window (0 disables)")
	rootCmd.PersistentFlags().BoolVar(&flagKeepInputClean, "keep-input-clean", true, "Discard queued input after every keystroke")

	_ = rootCmd.RegisterFlagCompletionFunc("color", completeValues("auto", "always", "never"))
	_ = rootCmd.RegisterFlagCompletionFunc("term-type", completeValues("posix", "nt", "cygwin", "mintty"))
	_ = rootCmd.RegisterFlagCompletionFunc("encoding", completeEncodings)
}

// applyFlagOverrides applies command-line flag values to the config.
// Flags only override if they were explicitly set.
func applyFlagOverrides(cmd *cobra.Command) {
	if flagVerbose {
		cfg.Verbose = true
	}
	if flagQuiet {
		cfg.Quiet = true
	}
	if flagColor != "" {
		cfg.Color = flagColor
	}
	if flagTermType != "" {
		cfg.TermType = flagTermType
	}
	if flagEncoding != "" {
		cfg.Encoding = flagEncoding
	}
	if cmd.Flags().Changed("repeat-threshold") {
		cfg.Input.RepeatThreshold = flagRepeatThreshold
	}
	if cmd.Flags().Changed("keep-input-clean") {
		cfg.Input.KeepClean = flagKeepInputClean
	}
}

// GetConfig returns the loaded configuration.
// Must be called after PersistentPreRunE has executed.
func GetConfig() *config.Config {
	if cfg == nil {
		return config.Default()
	}
	return cfg
}

// durationValue adapts config.Duration to pflag.Value so the flag accepts
// the same "300ms" or "0.3" forms as config files.
type durationValue struct {
	d *config.Duration
}

func (v durationValue) String() string {
	if v.d == nil {
		return ""
	}
	return v.d.String()
}

func (v durationValue) Set(s string) error { return v.d.UnmarshalText([]byte(s)) }

func (v durationValue) Type() string { return "duration" }

// newHandler builds a terminal handler from the loaded config, reading from
// the command's input and writing to its output.
func newHandler(cmd *cobra.Command) *term.Handler {
	c := GetConfig()
	typ, _ := term.ParseType(c.TermType) // validated in PersistentPreRunE

	threshold := time.Duration(c.Input.RepeatThreshold)
	if threshold <= 0 {
		threshold = -1 // zero would select the default
	}
	keepClean := c.Input.KeepClean

	h := term.New(term.Options{
		Type:            typ,
		Encoding:        c.Encoding,
		Stdin:           cmd.InOrStdin(),
		Stdout:          cmd.OutOrStdout(),
		Stderr:          cmd.ErrOrStderr(),
		RepeatThreshold: threshold,
		KeepInputClean:  &keepClean,
		Console:         handlerConsole,
	})
	term.Verbose("terminal: type=%s encoding=%s getch=%v", h.Type(), h.Encoding(), h.GetchEnabled())
	return h
}

// outputEncoding returns the encoding text output is written in.
func outputEncoding(cmd *cobra.Command) string {
	if c := GetConfig(); c.Encoding != "" {
		return c.Encoding
	}
	return term.DetectEncoding(cmd.OutOrStdout())
}

// writeLine writes s and a newline to the command's output, dropping runes
// the output encoding cannot represent.
func writeLine(cmd *cobra.Command, s string) error {
	return strutil.WriteSafe(cmd.OutOrStdout(), s, outputEncoding(cmd), "\n")
}
