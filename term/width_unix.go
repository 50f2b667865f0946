//go:build unix

package term

import "golang.org/x/sys/unix"

// Columns returns the width of the terminal on fd, or COLUMNS, or 80.
func Columns(fd uintptr) int {
	ws, err := unix.IoctlGetWinsize(int(fd), unix.TIOCGWINSZ)
	if err == nil && ws.Col > 0 {
		return int(ws.Col)
	}
	return fallbackColumns()
}
