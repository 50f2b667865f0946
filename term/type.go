package term

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/mattn/go-isatty"
)

// Type identifies the kind of terminal a Handler talks to.
// The zero value means "detect".
type Type int

const (
	POSIX Type = iota + 1
	NT
	Cygwin
	MinTTY
)

var typeNames = map[Type]string{
	POSIX:  "posix",
	NT:     "nt",
	Cygwin: "cygwin",
	MinTTY: "mintty",
}

func (t Type) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// ParseType parses a terminal type name. The empty string yields the zero
// Type, which New replaces with DetectType.
func ParseType(s string) (Type, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0, nil
	}
	for t, name := range typeNames {
		if name == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("invalid terminal type %q (want posix, nt, cygwin or mintty)", s)
}

// DetectType guesses the terminal type from the platform and environment.
func DetectType() Type {
	return detectType(runtime.GOOS, os.Getenv, isatty.IsCygwinTerminal(os.Stdout.Fd()))
}

func detectType(goos string, getenv func(string) string, cygwinPty bool) Type {
	if goos != "windows" {
		return POSIX
	}
	if getenv("TERM") == "cygwin" || getenv("OSTYPE") == "cygwin" {
		return Cygwin
	}
	// mintty sets TERM=xterm and hands the process a pipe, not a console
	if getenv("TERM") == "xterm" || cygwinPty {
		return MinTTY
	}
	return NT
}
