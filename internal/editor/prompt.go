package editor

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/goopsie/sl2tools/pkg/character"
	"github.com/goopsie/sl2tools/pkg/wstr"
)

// Prompt asks for each field on a line-oriented terminal.
// An empty answer keeps the value shown in brackets.
type Prompt struct {
	In  io.Reader
	Out io.Writer

	reader *bufio.Reader
}

// NewPrompt returns a Prompt reading from in and writing to out.
func NewPrompt(in io.Reader, out io.Writer) *Prompt {
	return &Prompt{In: in, Out: out}
}

// Edit walks Fields in order. Invalid answers are asked again.
// End of input before the last field aborts the edit.
func (p *Prompt) Edit(slot int, current character.Stats) (character.Stats, error) {
	if p.reader == nil {
		p.reader = bufio.NewReader(p.In)
	}

	fmt.Fprintf(p.Out, "Editing slot %d (%s)\n", slot, current.Name)

	next := current
	for _, f := range Fields {
		for {
			fmt.Fprintf(p.Out, "%s [%s]: ", f.Label, f.Get(&next))

			line, err := p.reader.ReadString('\n')
			if err != nil && !(errors.Is(err, io.EOF) && line != "") {
				if errors.Is(err, io.EOF) {
					return current, ErrAborted
				}
				return current, fmt.Errorf("read answer: %w", err)
			}
			line = strings.TrimRight(line, "\r\n")
			if line == "" {
				break
			}

			if err := f.Set(&next, line); err != nil {
				fmt.Fprintf(p.Out, "  %v\n", err)
				continue
			}
			if f.Label == Fields[0].Label && wstr.Units(line) > character.NameUnits {
				fmt.Fprintf(p.Out, "  name is longer than %d characters and will be truncated\n", character.NameUnits)
			}
			break
		}
	}

	return next, nil
}
