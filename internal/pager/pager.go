// Package pager provides the scoped output channel: an interactive pager
// process when stdout is a terminal, direct passthrough otherwise.
package pager

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/mattn/go-isatty"
)

const defaultCommand = "less -R"

// Output is the acquired channel. Close releases the pager process; for
// passthrough output it is a no-op.
type Output struct {
	w   io.WriteCloser
	cmd *exec.Cmd
}

// Open acquires the output channel for stdout. command overrides the
// pager; when empty, $PAGER and then "less -R" are used. Non-terminal
// destinations get passthrough so piped output stays clean.
func Open(stdout *os.File, command string) (*Output, error) {
	if !isatty.IsTerminal(stdout.Fd()) {
		return &Output{w: Passthrough(stdout)}, nil
	}

	if command == "" {
		command = os.Getenv("PAGER")
	}
	if command == "" {
		command = defaultCommand
	}

	parts := strings.Fields(command)
	cmd := exec.Command(parts[0], parts[1:]...)
	cmd.Stdout = stdout
	cmd.Stderr = os.Stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("opening pager stdin: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting pager %q: %w", parts[0], err)
	}

	return &Output{w: stdin, cmd: cmd}, nil
}

func (o *Output) Write(p []byte) (int, error) {
	return o.w.Write(p)
}

// Close releases the channel. It must run on every exit path, including
// after a failed write, so the pager process never leaks.
func (o *Output) Close() error {
	err := o.w.Close()
	if o.cmd != nil {
		if werr := o.cmd.Wait(); err == nil {
			err = werr
		}
	}
	return err
}

// Passthrough wraps a plain writer as a channel whose Close is a no-op.
func Passthrough(w io.Writer) io.WriteCloser {
	return nopCloser{w}
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
