// ABOUTME: Pass-through execution of unrecognized command lines
// ABOUTME: Hands the whole line to a shell and reports only failure to run it
package shell

import (
	"context"
	"errors"
	"io"
	"os/exec"
	"runtime"
)

// ErrDisabled is returned by Disabled.
var ErrDisabled = errors.New("shell pass-through is disabled")

// Runner executes a command line outside the session.
type Runner interface {
	Run(ctx context.Context, line string) error
}

// Exec runs lines with Program Args... line.
type Exec struct {
	Program string
	Args    []string
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer
}

// DefaultProgram returns the platform shell and the flag that makes it
// execute its next argument.
func DefaultProgram() (string, []string) {
	if runtime.GOOS == "windows" {
		return "cmd", []string{"/C"}
	}
	return "sh", []string{"-c"}
}

// Run executes line and waits for it. A non-zero exit status is returned
// as an *exec.ExitError.
func (e *Exec) Run(ctx context.Context, line string) error {
	args := append(append([]string(nil), e.Args...), line)
	cmd := exec.CommandContext(ctx, e.Program, args...)
	cmd.Stdin = e.Stdin
	cmd.Stdout = e.Stdout
	cmd.Stderr = e.Stderr
	return cmd.Run()
}

// Disabled rejects every line.
type Disabled struct{}

func (Disabled) Run(context.Context, string) error { return ErrDisabled }
