package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/stanfordbioinformatics/gbsc-dnanexus/internal/normalize"
	"golang.org/x/term"
)

var errNotConfirmed = errors.New("aborted: not confirmed")

func stdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// confirm asks a yes/no question on out and reads the answer from in. When
// interactive is false it returns true without asking.
func confirm(in io.Reader, out io.Writer, interactive bool, question string) (bool, error) {
	if !interactive {
		return true, nil
	}
	fmt.Fprintf(out, "%s [y/N]: ", question)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	switch normalize.Lower(line) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
