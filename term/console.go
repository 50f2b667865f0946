package term

import "io"

// Console is the platform capability set a Handler drives. One
// implementation exists per platform; nativeConsole returns the build's.
type Console interface {
	// IsTerminal reports whether f is attached to an interactive terminal.
	IsTerminal(f any) bool

	// Snapshot captures the current attributes of in so they can be put
	// back later. Platforms without persistent raw mode return a no-op.
	Snapshot(in io.Reader) (Restorer, error)

	// ReadRaw reads exactly one byte from r with in switched to raw mode,
	// returning in to its prior state on every exit path.
	ReadRaw(in io.Reader, r io.ByteReader, restore Restorer) (byte, error)

	// Flush discards input queued on in, best effort.
	Flush(in io.Reader)
}

// Restorer puts a terminal back to a captured state. Restore may be called
// any number of times.
type Restorer interface {
	Restore() error
}

type noopRestorer struct{}

func (noopRestorer) Restore() error { return nil }

// NoopRestorer returns a Restorer that does nothing.
func NoopRestorer() Restorer { return noopRestorer{} }

// leaveRaw undoes a raw-mode read. The session restorer wins; when there is
// none, fallback puts back the state raw mode was entered from.
func leaveRaw(session Restorer, fallback func() error) error {
	if _, noop := session.(noopRestorer); session == nil || noop {
		return fallback()
	}
	return session.Restore()
}

type fder interface {
	Fd() uintptr
}

func fdOf(v any) (uintptr, bool) {
	f, ok := v.(fder)
	if !ok {
		return 0, false
	}
	return f.Fd(), true
}
