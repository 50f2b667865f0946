//go:build windows

package term

import (
	"fmt"
	"io"

	"golang.org/x/sys/windows"
	goterm "golang.org/x/term"
)

var (
	kernel32                    = windows.NewLazySystemDLL("kernel32.dll")
	procFlushConsoleInputBuffer = kernel32.NewProc("FlushConsoleInputBuffer")
)

type windowsConsole struct{}

func nativeConsole() Console { return windowsConsole{} }

func (windowsConsole) IsTerminal(f any) bool {
	fd, ok := fdOf(f)
	return ok && goterm.IsTerminal(int(fd))
}

// The console keeps no raw mode between reads, so there is nothing to snapshot.
func (windowsConsole) Snapshot(io.Reader) (Restorer, error) {
	return noopRestorer{}, nil
}

func (windowsConsole) ReadRaw(in io.Reader, r io.ByteReader, _ Restorer) (byte, error) {
	fd, ok := fdOf(in)
	if !ok {
		return r.ReadByte()
	}
	old, err := goterm.MakeRaw(int(fd))
	if err != nil {
		return 0, fmt.Errorf("enter raw mode: %w", err)
	}
	SetRawMode(true)
	defer func() {
		_ = goterm.Restore(int(fd), old)
		SetRawMode(false)
	}()
	return r.ReadByte()
}

func (windowsConsole) Flush(in io.Reader) {
	fd, ok := fdOf(in)
	if !ok || procFlushConsoleInputBuffer.Find() != nil {
		return
	}
	_, _, _ = procFlushConsoleInputBuffer.Call(fd)
}
