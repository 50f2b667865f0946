//go:build unix && !linux

package term

import "io"

// flushInput seeks stdin to its end. Terminals are not seekable, so this
// mostly helps when stdin is redirected from a file.
func flushInput(in io.Reader) {
	if s, ok := in.(io.Seeker); ok {
		_, _ = s.Seek(0, io.SeekEnd)
	}
}
