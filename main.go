package main

import (
	"os"

	"github.com/runar-rkmedia/termkit/cmd"
	"github.com/runar-rkmedia/termkit/term"
)

func main() {
	if err := cmd.Execute(); err != nil {
		term.Errorf("%v", err)
		os.Exit(1)
	}
}
