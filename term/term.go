// Package term reads keystrokes and lines from a terminal, clears the screen
// and input buffer, and restores terminal attributes. It also provides the
// colored status output used by the termkit CLI.
package term

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"sync/atomic"

	"github.com/runar-rkmedia/termkit/strutil"
	goterm "golang.org/x/term"
)

var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// StripAnsi removes ANSI escape codes from a string
func StripAnsi(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}

// ShellQuoteArgs returns args formatted for copy-paste into shell
// Arguments containing special characters are single-quoted
func ShellQuoteArgs(args []string) string {
	needsQuoting := func(s string) bool {
		if s == "" {
			return true
		}
		return strings.ContainsAny(s, " \t\n&|;$`\"'\\<>(){}[]*?!#~=")
	}

	parts := make([]string, 0, len(args))
	for _, arg := range args {
		if needsQuoting(arg) {
			escaped := strings.ReplaceAll(arg, "'", "'\"'\"'")
			parts = append(parts, "'"+escaped+"'")
		} else {
			parts = append(parts, arg)
		}
	}
	return strings.Join(parts, " ")
}

// Row lays out left and right on one line of total columns, measuring
// display width without ANSI codes. When both do not fit, left is cut.
func Row(left, right string, total int) string {
	plainLeft, plainRight := StripAnsi(left), StripAnsi(right)
	rw := strutil.Width(plainRight)
	if strutil.Width(plainLeft)+rw+1 > total && total > rw+1 {
		plainLeft = strutil.TruncateLeft(plainLeft, total-rw-1)
		left = plainLeft
	}
	// Justify the visible text, then keep the colored edges around its padding.
	row := strutil.EdgeJust(plainLeft, plainRight, total)
	return left + row[len(plainLeft):len(row)-len(plainRight)] + right
}

// ANSI color codes
const (
	ColorReset  = "\033[0m"
	ColorBold   = "\033[1m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorCyan   = "\033[36m"
	ColorDim    = "\033[2m"
)

// Terminal provides colored output helpers
type Terminal struct {
	w       io.Writer
	Verbose bool        // exported for checking verbose state
	plain   bool        // when true, disable all ANSI codes
	isTTY   bool        // true if stderr is a terminal
	rawMode atomic.Bool // true while a Handler holds stdin in raw mode
}

// rawWriter translates bare \n to \r\n while stdin is in raw mode, since the
// kernel does no output processing then.
type rawWriter struct {
	inner io.Writer
	t     *Terminal
}

func (rw *rawWriter) Write(p []byte) (int, error) {
	if !rw.t.rawMode.Load() {
		return rw.inner.Write(p)
	}
	out := make([]byte, 0, len(p)+8)
	for i := 0; i < len(p); i++ {
		if p[i] == '\n' && (i == 0 || p[i-1] != '\r') {
			out = append(out, '\r', '\n')
		} else {
			out = append(out, p[i])
		}
	}
	n, err := rw.inner.Write(out)
	// Report original byte count to callers (fmt expects this)
	if n >= len(out) {
		return len(p), err
	}
	return n, err
}

// NewTerminal creates a Terminal that writes to stderr
func NewTerminal() *Terminal {
	return NewWriter(os.Stderr, goterm.IsTerminal(int(os.Stderr.Fd())))
}

// NewWriter creates a Terminal writing to w. Colors are disabled unless isTTY.
func NewWriter(w io.Writer, isTTY bool) *Terminal {
	t := &Terminal{
		isTTY: isTTY,
		plain: !isTTY,
	}
	t.w = &rawWriter{inner: w, t: t}
	return t
}

// SetPlain enables or disables plain mode (no ANSI codes)
func (t *Terminal) SetPlain(p bool) {
	t.plain = p
}

// IsTTY returns whether the terminal is interactive
func (t *Terminal) IsTTY() bool {
	return t.isTTY
}

// IsPlain returns whether plain mode is enabled
func (t *Terminal) IsPlain() bool {
	return t.plain
}

// SetRawMode tells the terminal that stdin is in raw mode.
func (t *Terminal) SetRawMode(raw bool) {
	t.rawMode.Store(raw)
}

// IsRawMode reports whether a Handler currently holds stdin in raw mode.
func (t *Terminal) IsRawMode() bool {
	return t.rawMode.Load()
}

// Wrap returns a writer to w that, like the terminal itself, writes \r\n for
// every bare \n while stdin is in raw mode.
func (t *Terminal) Wrap(w io.Writer) io.Writer {
	return &rawWriter{inner: w, t: t}
}

// SetVerbose enables or disables verbose output
func (t *Terminal) SetVerbose(v bool) {
	t.Verbose = v
}

func (t *Terminal) colored(color, format string, args ...any) {
	if t.plain {
		fmt.Fprintf(t.w, format+"\n", args...)
		return
	}
	fmt.Fprintf(t.w, "%s"+format+"%s\n", append([]any{color}, append(args, ColorReset)...)...)
}

// Info prints an informational message in cyan (with newline)
func (t *Terminal) Info(format string, args ...any) {
	if quietMode {
		return
	}
	t.colored(ColorCyan, format, args...)
}

// Dim prints a subdued message (with newline)
func (t *Terminal) Dim(format string, args ...any) {
	if quietMode {
		return
	}
	t.colored(ColorDim, format, args...)
}

// Success prints a success message in green (with newline)
func (t *Terminal) Success(format string, args ...any) {
	t.colored(ColorGreen, format, args...)
}

// Error prints an error message in red (with newline)
func (t *Terminal) Error(format string, args ...any) {
	t.colored(ColorRed, format, args...)
}

// Errorf prints "error: " prefix followed by message in red (with newline)
func (t *Terminal) Errorf(format string, args ...any) {
	t.colored(ColorRed, "error: "+format, args...)
}

// Warn prints a warning message in yellow (with newline)
func (t *Terminal) Warn(format string, args ...any) {
	t.colored(ColorYellow, format, args...)
}

// Warnf prints "warning: " prefix followed by message in yellow (with newline)
func (t *Terminal) Warnf(format string, args ...any) {
	t.colored(ColorYellow, "warning: "+format, args...)
}

// VerboseLog prints a dim message only if verbose mode is enabled (with newline)
func (t *Terminal) VerboseLog(format string, args ...any) {
	if t.Verbose {
		t.colored(ColorDim, format, args...)
	}
}

// Printf prints without color formatting (no automatic newline)
func (t *Terminal) Printf(format string, args ...any) {
	fmt.Fprintf(t.w, format, args...)
}

// Color returns the color code if not in plain mode, empty string otherwise
func (t *Terminal) Color(code string) string {
	if t.plain {
		return ""
	}
	return code
}

// Write writes raw bytes to the terminal
func (t *Terminal) Write(p []byte) (n int, err error) {
	return t.w.Write(p)
}

// Println prints without color formatting (with newline)
func (t *Terminal) Println(args ...any) {
	fmt.Fprintln(t.w, args...)
}

// ClearLine clears the current line
func (t *Terminal) ClearLine() {
	if !t.plain {
		fmt.Fprintf(t.w, "\r\033[K")
	}
}

// Default is the default terminal instance used by package-level functions
var Default = NewTerminal()

// Package-level functions that delegate to Default

func SetPlain(p bool)                    { Default.SetPlain(p) }
func SetRawMode(raw bool)                { Default.SetRawMode(raw) }
func SetVerbose(v bool)                  { Default.SetVerbose(v) }
func IsVerbose() bool                    { return Default.Verbose }
func IsTTY() bool                        { return Default.IsTTY() }
func IsPlain() bool                      { return Default.IsPlain() }
func Info(format string, args ...any)    { Default.Info(format, args...) }
func Dim(format string, args ...any)     { Default.Dim(format, args...) }
func Success(format string, args ...any) { Default.Success(format, args...) }
func Error(format string, args ...any)   { Default.Error(format, args...) }
func Errorf(format string, args ...any)  { Default.Errorf(format, args...) }
func Warn(format string, args ...any)    { Default.Warn(format, args...) }
func Warnf(format string, args ...any)   { Default.Warnf(format, args...) }
func Verbose(format string, args ...any) { Default.VerboseLog(format, args...) }
func Printf(format string, args ...any)  { Default.Printf(format, args...) }
func Color(code string) string           { return Default.Color(code) }
func Write(p []byte) (int, error)        { return Default.Write(p) }
func Println(args ...any)                { Default.Println(args...) }
func ClearLine()                         { Default.ClearLine() }
func IsRawMode() bool                    { return Default.IsRawMode() }
func Wrap(w io.Writer) io.Writer         { return Default.Wrap(w) }

// ColorMode represents terminal color modes
type ColorMode int

const (
	ColorModeAuto   ColorMode = iota // auto-detect based on TTY
	ColorModeAlways                  // always use colors
	ColorModeNever                   // never use colors
)

// ParseColorMode maps a config value (auto, always, never) to a ColorMode.
func ParseColorMode(s string) (ColorMode, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return ColorModeAuto, nil
	case "always":
		return ColorModeAlways, nil
	case "never":
		return ColorModeNever, nil
	}
	return ColorModeAuto, fmt.Errorf("invalid color mode %q (want auto, always or never)", s)
}

// SetColorMode sets the color mode for the terminal
func SetColorMode(mode ColorMode) {
	switch mode {
	case ColorModeAlways:
		Default.SetPlain(false)
	case ColorModeNever:
		Default.SetPlain(true)
	case ColorModeAuto:
		Default.SetPlain(!Default.IsTTY() || os.Getenv("NO_COLOR") != "")
	}
}

// quiet mode state
var quietMode bool

// SetQuiet enables or disables quiet mode, which drops Info and Dim output.
func SetQuiet(q bool) {
	quietMode = q
}

// IsQuiet returns whether quiet mode is enabled
func IsQuiet() bool {
	return quietMode
}
