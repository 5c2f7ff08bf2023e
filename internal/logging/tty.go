package logging

import (
	"io"
	"os"

	"golang.org/x/term"
)

// fdWriter is any writer backed by a file descriptor, such as *os.File.
type fdWriter interface {
	Fd() uintptr
}

// IsTTY reports whether w writes to a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(fdWriter)
	return ok && term.IsTerminal(int(f.Fd()))
}

// SupportsColor reports whether ANSI color output is appropriate for w.
// Color is off for non-terminals, when NO_COLOR is set (no-color.org),
// and for TERM=dumb.
func SupportsColor(w io.Writer) bool {
	if _, set := os.LookupEnv("NO_COLOR"); set {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return IsTTY(w)
}
