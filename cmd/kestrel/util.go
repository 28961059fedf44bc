package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/viper"
)

// exitWithError prints err in red on stderr and exits with status 1.
func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, red(err.Error()))
	os.Exit(1)
}

// stdioIsTerminal reports whether both stdin and stdout are attached to a
// terminal, which is when the REPL is useful.
func stdioIsTerminal() bool {
	for _, f := range []*os.File{os.Stdin, os.Stdout} {
		fd := f.Fd()
		if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
			return false
		}
	}
	return true
}

// applyColorFlag turns off colored output when --no-color is set.
func applyColorFlag() {
	if viper.GetBool("no-color") {
		color.NoColor = true
	}
}
