//go:build unix

package cmd

import (
	"os"
	"syscall"
)

// shutdownSignals are the signals after which the terminal is restored.
var shutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM, syscall.SIGHUP}
