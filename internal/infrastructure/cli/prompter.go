package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/doeshing/vibe-go/internal/ports"
)

// Prompter implements ports.Prompter using stdin and stderr.
type Prompter struct {
	in          *bufio.Reader
	out         io.Writer
	fd          int
	interactive bool
}

// NewPrompter constructs a prompter. Masked input is used when stdin is a terminal.
func NewPrompter(in io.Reader, out io.Writer, interactive bool) *Prompter {
	fd := -1
	if in == nil {
		in = os.Stdin
		fd = int(os.Stdin.Fd())
	}
	if out == nil {
		out = os.Stderr
	}
	return &Prompter{
		in:          bufio.NewReader(in),
		out:         out,
		fd:          fd,
		interactive: interactive,
	}
}

// Enabled indicates the prompter may ask questions.
func (p *Prompter) Enabled() bool {
	return p.interactive
}

// Confirm asks a yes/no question. An empty answer picks the default.
func (p *Prompter) Confirm(question string, defaultYes bool) (bool, error) {
	hint := "[y/N]"
	if defaultYes {
		hint = "[Y/n]"
	}
	fmt.Fprintf(p.out, "%s %s: ", question, hint)
	line, err := p.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "":
		return defaultYes, nil
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// Secret reads a line without echo when attached to a terminal.
func (p *Prompter) Secret(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	if p.fd >= 0 && term.IsTerminal(p.fd) {
		raw, err := term.ReadPassword(p.fd)
		fmt.Fprintln(p.out)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(raw)), nil
	}
	line, err := p.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

var _ ports.Prompter = (*Prompter)(nil)
