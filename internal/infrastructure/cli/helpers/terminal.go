package helpers

import (
	"os"

	"github.com/mattn/go-isatty"
)

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// StdinIsTerminal reports whether a user can answer prompts.
func StdinIsTerminal() bool {
	return isTerminal(os.Stdin)
}

// StdoutIsTerminal reports whether output may be styled.
func StdoutIsTerminal() bool {
	return isTerminal(os.Stdout)
}

// StderrIsTerminal reports whether progress output may be animated.
func StderrIsTerminal() bool {
	return isTerminal(os.Stderr)
}
