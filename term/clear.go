package term

import (
	"os"
	"os/exec"
)

// clearCommands is the screen-clear invocation per terminal type.
var clearCommands = map[Type][]string{
	POSIX:  {"clear"},
	NT:     {"cmd", "/c", "cls"},
	Cygwin: {"echo", "-en", `\ec`},
	MinTTY: {"sh", "-c", `echo -en "\ec"`},
}

var execCommand = exec.Command

// Clear clears the screen when stdout is interactive. MinTTY hands the
// process a pipe, so it is always cleared. The command's error is returned
// for callers to log; a failed clear is not fatal.
func (h *Handler) Clear() error {
	if h.typ != MinTTY && !h.console.IsTerminal(h.stdout) {
		return nil
	}
	args, ok := clearCommands[h.typ]
	if !ok {
		return nil
	}
	cmd := execCommand(args[0], args[1:]...)
	if f, ok := h.stdin.(*os.File); ok {
		cmd.Stdin = f
	}
	cmd.Stdout = h.stdout
	cmd.Stderr = h.stderr
	return cmd.Run()
}
