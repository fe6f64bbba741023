// Package terminal provides utilities for terminal operations: prompting for
// input (with no-echo passwords) and clearing previously printed lines.
package terminal

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// Width returns the terminal width of stdout, or 80 when unknown.
func Width() int {
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		return width
	}
	return 80
}

// LinesFor returns how many rows textLength characters occupy at width,
// plus the empty row left after the user pressed Enter.
func LinesFor(textLength, width int) int {
	if width <= 0 {
		width = 80
	}
	lines := (textLength + width - 1) / width
	if lines < 1 {
		lines = 1
	}
	return lines + 1
}

// ClearPreviousLines erases the rows used by a prompt and its answer, so
// typed credentials do not stay on screen.
func ClearPreviousLines(w io.Writer, textLength int) {
	n := LinesFor(textLength, Width())
	for i := 0; i < n; i++ {
		fmt.Fprint(w, "\r\x1b[2K") // clear entire line
		if i < n-1 {
			fmt.Fprint(w, "\x1b[1A") // up one line
		}
	}
}
