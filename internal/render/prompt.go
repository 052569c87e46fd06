package render

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Prompt asks yes/no questions on a terminal. Without a terminal it refuses
// every prompt unless assumeYes is set.
type Prompt struct {
	in          *bufio.Reader
	out         io.Writer
	interactive bool
	assumeYes   bool
}

func NewPrompt(in *os.File, out io.Writer, assumeYes bool) *Prompt {
	return newPrompt(in, out, term.IsTerminal(int(in.Fd())), assumeYes)
}

func newPrompt(in io.Reader, out io.Writer, interactive, assumeYes bool) *Prompt {
	return &Prompt{in: bufio.NewReader(in), out: out, interactive: interactive, assumeYes: assumeYes}
}

// Confirm makes Prompt a view.Confirmer.
func (p *Prompt) Confirm(prompt string) bool {
	if p.assumeYes {
		return true
	}
	if !p.interactive {
		fmt.Fprintln(p.out, prompt+" (no terminal, pass --yes to confirm)")
		return false
	}
	fmt.Fprint(p.out, prompt+" [y/N]: ")
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
