package term

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/runar-rkmedia/termkit/strutil"
)

// Options configures a Handler. The zero value detects everything and reads
// from the process's standard streams.
type Options struct {
	Type     Type   // zero detects
	Encoding string // empty detects

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// RepeatThreshold drops an identical key arriving within this window.
	// Zero selects DefaultRepeatThreshold; negative disables suppression.
	RepeatThreshold time.Duration

	// KeepInputClean discards queued input after every keystroke. Nil means true.
	KeepInputClean *bool

	Console Console          // nil selects the native console
	Now     func() time.Time // nil selects time.Now
}

// Key is the outcome of a single keystroke read.
type Key struct {
	Text       string // accepted key, empty if none
	Raw        []byte // bytes read
	Suppressed bool   // dropped as a key repeat
	Invalid    bool   // not a 7-bit character
	Time       time.Time
}

// Handler reads keystrokes and lines from one terminal session. It is not
// safe for concurrent use.
type Handler struct {
	typ      Type
	encoding string

	stdin  io.Reader
	in     *bufio.Reader
	stdout io.Writer
	stderr io.Writer

	console  Console
	restorer Restorer
	now      func() time.Time

	gate           RepeatGate
	getchEnabled   bool
	keepInputClean bool
}

// New creates a Handler. It never fails: anything it cannot detect or
// snapshot falls back to a working default.
func New(opts Options) *Handler {
	h := &Handler{
		typ:            opts.Type,
		encoding:       opts.Encoding,
		stdin:          opts.Stdin,
		stdout:         opts.Stdout,
		stderr:         opts.Stderr,
		console:        opts.Console,
		now:            opts.Now,
		keepInputClean: true,
	}
	if h.stdin == nil {
		h.stdin = os.Stdin
	}
	if h.stdout == nil {
		h.stdout = os.Stdout
	}
	if h.stderr == nil {
		h.stderr = os.Stderr
	}
	if h.console == nil {
		h.console = nativeConsole()
	}
	if h.now == nil {
		h.now = time.Now
	}
	if opts.KeepInputClean != nil {
		h.keepInputClean = *opts.KeepInputClean
	}

	threshold := opts.RepeatThreshold
	if threshold == 0 {
		threshold = DefaultRepeatThreshold
	}
	h.gate = NewRepeatGate(threshold)

	if h.typ == 0 {
		h.typ = DetectType()
	}
	if h.encoding == "" {
		h.encoding = DetectEncoding(h.stdout)
	}

	h.in = bufio.NewReader(h.stdin)
	h.getchEnabled = h.console.IsTerminal(h.stdin)

	h.restorer = noopRestorer{}
	if h.getchEnabled {
		r, err := h.console.Snapshot(h.stdin)
		if err != nil {
			Verbose("terminal restore disabled: %v", err)
		} else if r != nil {
			h.restorer = r
		}
	}
	return h
}

// Type returns the terminal type.
func (h *Handler) Type() Type { return h.typ }

// Encoding returns the encoding used to decode lines.
func (h *Handler) Encoding() string { return h.encoding }

// GetchEnabled reports whether keystrokes are read in raw mode. When false,
// Getch reads a whole line and returns its first character.
func (h *Handler) GetchEnabled() bool { return h.getchEnabled }

// RepeatThreshold returns the key repeat window.
func (h *Handler) RepeatThreshold() time.Duration { return h.gate.Threshold }

// ReadKey reads one keystroke and runs it through the repeat gate.
// End of input is reported as io.EOF.
func (h *Handler) ReadKey() (Key, error) {
	if !h.getchEnabled {
		line, err := h.Gets()
		if err != nil {
			return Key{}, err
		}
		text := line
		if r, size := utf8.DecodeRuneInString(line); size > 0 {
			text = string(r)
		}
		return h.gated(Key{Text: text, Raw: []byte(text), Time: h.now()}), nil
	}

	b, err := h.console.ReadRaw(h.stdin, h.in, h.restorer)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Key{}, io.EOF
		}
		return Key{}, fmt.Errorf("read key: %w", err)
	}
	if h.keepInputClean {
		h.ClearInputBuffer()
	}

	key := Key{Raw: []byte{b}, Time: h.now()}
	text, err := strutil.Decode(key.Raw, "ascii")
	if err != nil {
		key.Invalid = true
		return key, nil
	}
	key.Text = text
	return h.gated(key), nil
}

func (h *Handler) gated(key Key) Key {
	var ok bool
	h.gate, ok = h.gate.Check(key.Text, key.Time)
	if !ok {
		key.Text = ""
		key.Suppressed = true
	}
	return key
}

// Getch reads one keystroke. It returns the empty string when the key is not
// a 7-bit character or repeats the previous key within the repeat window.
func (h *Handler) Getch() (string, error) {
	k, err := h.ReadKey()
	return k.Text, err
}

// Gets reads one line without its line terminator. A final line without a
// newline is returned normally; the read after it returns io.EOF.
func (h *Handler) Gets() (string, error) {
	line, err := h.in.ReadBytes('\n')
	if len(line) == 0 && err != nil {
		if errors.Is(err, io.EOF) {
			return "", io.EOF
		}
		return "", fmt.Errorf("read line: %w", err)
	}
	line = bytes.TrimSuffix(line, []byte("\n"))
	line = bytes.TrimSuffix(line, []byte("\r"))
	return strutil.DecodeLenient(line, h.encoding), nil
}

// ClearInputBuffer discards keystrokes queued on an interactive stdin.
func (h *Handler) ClearInputBuffer() {
	if !h.getchEnabled {
		return
	}
	h.console.Flush(h.stdin)
	_, _ = h.in.Discard(h.in.Buffered())
}

// Restore puts the terminal back to the state captured by New. It is safe to
// call any number of times, including when raw mode was never entered.
func (h *Handler) Restore() error {
	SetRawMode(false)
	return h.restorer.Restore()
}

// RestoreOnSignal restores the terminal when one of sigs arrives and then
// calls onSignal, which usually exits the process. The returned stop
// function stops listening.
func (h *Handler) RestoreOnSignal(onSignal func(os.Signal), sigs ...os.Signal) (stop func()) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, sigs...)
	done := make(chan struct{})

	go func() {
		select {
		case sig := <-ch:
			_ = h.Restore()
			if onSignal != nil {
				onSignal(sig)
			}
		case <-done:
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			signal.Stop(ch)
			close(done)
		})
	}
}
