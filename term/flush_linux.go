package term

import (
	"io"

	"golang.org/x/sys/unix"
)

func flushInput(in io.Reader) {
	if fd, ok := fdOf(in); ok {
		_ = unix.IoctlSetInt(int(fd), unix.TCFLSH, unix.TCIFLUSH)
	}
}
