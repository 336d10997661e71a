package main

import (
	"os"

	"golang.org/x/term"
)

// isTTY reports whether f is attached to an interactive terminal, used to
// gate interactive-only behavior.
func isTTY(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
