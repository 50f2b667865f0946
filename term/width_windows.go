//go:build windows

package term

import goterm "golang.org/x/term"

// Columns returns the width of the console on fd, or COLUMNS, or 80.
func Columns(fd uintptr) int {
	width, _, err := goterm.GetSize(int(fd))
	if err == nil && width > 0 {
		return width
	}
	return fallbackColumns()
}
