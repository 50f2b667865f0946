//go:build unix

package term

import (
	"fmt"
	"io"

	goterm "golang.org/x/term"
)

type posixConsole struct{}

func nativeConsole() Console { return posixConsole{} }

func (posixConsole) IsTerminal(f any) bool {
	fd, ok := fdOf(f)
	return ok && goterm.IsTerminal(int(fd))
}

func (posixConsole) Snapshot(in io.Reader) (Restorer, error) {
	fd, ok := fdOf(in)
	if !ok {
		return noopRestorer{}, fmt.Errorf("stdin has no file descriptor")
	}
	state, err := goterm.GetState(int(fd))
	if err != nil {
		return noopRestorer{}, fmt.Errorf("get terminal state: %w", err)
	}
	return &stateRestorer{fd: int(fd), state: state}, nil
}

func (posixConsole) ReadRaw(in io.Reader, r io.ByteReader, restore Restorer) (byte, error) {
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
		_ = leaveRaw(restore, func() error { return goterm.Restore(int(fd), old) })
		SetRawMode(false)
	}()
	return r.ReadByte()
}

func (posixConsole) Flush(in io.Reader) {
	flushInput(in)
}

// stateRestorer restores the attributes captured by Snapshot.
type stateRestorer struct {
	fd    int
	state *goterm.State
}

func (s *stateRestorer) Restore() error {
	if s == nil || s.state == nil {
		return nil
	}
	return goterm.Restore(s.fd, s.state)
}
