// Package scanner runs the external security scanner.
package scanner

//go:generate mockgen -source=scanner.go -destination=scannertest/mock_executor.go -package=scannertest

import (
	"context"
	"io"
	"os/exec"
	"syscall"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Streams are the standard streams handed to the scanner process.
// Nil fields are treated as empty input / discarded output.
type Streams struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Executor runs the scanner with args and reports its exit code. A non-nil
// error means the scanner could not be run at all; a scanner that ran and
// failed is reported through the exit code only.
type Executor interface {
	Execute(ctx context.Context, args []string, streams Streams) (int, error)
}

// Command executes a scanner binary as a child process.
type Command struct {
	// Path is the executable, looked up in PATH when it has no separator.
	Path string
	// Env replaces the child environment when non-nil.
	Env []string
	Log logrus.FieldLogger
}

var _ Executor = (*Command)(nil)

// Execute starts the scanner, pumps its output to streams until both pipes
// are drained and waits for it to exit.
func (c *Command) Execute(ctx context.Context, args []string, streams Streams) (int, error) {
	cmd := exec.CommandContext(ctx, c.Path, args...)
	cmd.Env = c.Env
	cmd.Stdin = streams.Stdin

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return -1, errors.Wrap(err, "stdout pipe")
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return -1, errors.Wrap(err, "stderr pipe")
	}

	if err := cmd.Start(); err != nil {
		return -1, errors.Wrapf(err, "start %s", c.Path)
	}

	// Both pipes must be read to EOF before Wait closes them.
	var eg errgroup.Group
	eg.Go(func() error { return pump(streams.Stdout, stdout) })
	eg.Go(func() error { return pump(streams.Stderr, stderr) })
	pumpErr := eg.Wait()

	code, err := exitCode(cmd.Wait())
	if err != nil {
		return -1, errors.Wrapf(err, "wait for %s", c.Path)
	}
	if pumpErr != nil && c.Log != nil {
		c.Log.WithError(pumpErr).Warn("scanner output was not fully forwarded")
	}
	return code, nil
}

// --- helpers -----------------------------------------------------------------

// pump copies r to w. On a write failure the rest of r is still drained so
// the child never blocks on a full pipe.
func pump(w io.Writer, r io.Reader) error {
	if w == nil {
		w = io.Discard
	}
	if _, err := io.Copy(w, r); err != nil {
		_, _ = io.Copy(io.Discard, r)
		return err
	}
	return nil
}

// exitCode maps the result of cmd.Wait to a process exit code. A child
// killed by a signal gets 128+signal, as a shell would report it.
func exitCode(err error) (int, error) {
	if err == nil {
		return 0, nil
	}
	var ee *exec.ExitError
	if !errors.As(err, &ee) {
		return -1, err
	}
	if code := ee.ExitCode(); code >= 0 {
		return code, nil
	}
	if ws, ok := ee.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return 128 + int(ws.Signal()), nil
	}
	return 1, nil
}
