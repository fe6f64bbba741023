package terminal

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// readPassword is replaced in tests.
var readPassword = term.ReadPassword

// Prompter reads answers from a terminal or any line-oriented input.
type Prompter struct {
	in    *bufio.Reader
	out   io.Writer
	fd    int
	isTTY bool
}

// NewPrompter reads from in and writes prompts to out. Passwords are read
// without echo when in is a terminal.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	p := &Prompter{in: bufio.NewReader(in), out: out, fd: -1}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		p.fd = int(f.Fd())
		p.isTTY = true
	}
	return p
}

// Stdio returns a Prompter on the process's stdin and stdout.
func Stdio() *Prompter { return NewPrompter(os.Stdin, os.Stdout) }

// Line prints label and returns the trimmed answer.
func (p *Prompter) Line(label string) (string, error) {
	fmt.Fprint(p.out, label)
	s, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && s != "") {
		return "", err
	}
	return strings.TrimSpace(s), nil
}

// Password prints label and reads a secret. On a terminal the input is not
// echoed; otherwise a whole line is read. The answer is not trimmed.
func (p *Prompter) Password(label string) (string, error) {
	fmt.Fprint(p.out, label)
	if p.isTTY {
		b, err := readPassword(p.fd)
		fmt.Fprintln(p.out)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	s, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && s != "") {
		return "", err
	}
	return strings.TrimRight(s, "\r\n"), nil
}

// IsInteractive reports whether stdin and stdout are both terminals.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}
