// Package prompt implements the interactive questions the CLI asks: yes/no
// confirmations and single or multi selection menus.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// LineConfirmer asks yes/no questions on a line-oriented terminal.
type LineConfirmer struct {
	in  *bufio.Reader
	out io.Writer
}

// NewLineConfirmer reads answers from in and writes questions to out.
func NewLineConfirmer(in io.Reader, out io.Writer) *LineConfirmer {
	return &LineConfirmer{in: bufio.NewReader(in), out: out}
}

// Confirm prints question and reads one line. Only "y" or "Y" counts as yes;
// end of input is a no.
func (c *LineConfirmer) Confirm(question string) (bool, error) {
	fmt.Fprintf(c.out, "%s [y/N] ", question)
	line, err := c.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("read answer: %w", err)
	}
	if errors.Is(err, io.EOF) && line == "" {
		fmt.Fprintln(c.out)
	}
	return strings.EqualFold(strings.TrimSpace(line), "y"), nil
}
