// Package shell executes manifest install steps. Each step string is handed
// verbatim to `sh -c`; stdout and stderr stream through to the user and only
// the exit status is interpreted. Steps are arbitrary user-authored commands
// and are not sandboxed; the trust gate is the only safety layer.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"

	"github.com/arthur-debert/jtd/pkg/logging"
	"github.com/arthur-debert/jtd/pkg/types"
)

// CommandError reports a step that exited non-zero.
type CommandError struct {
	Command  string
	ExitCode int
	Err      error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %q exited with status %d", e.Command, e.ExitCode)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// ExitCode extracts the exit status from a runner error. Returns -1 for
// errors that are not a non-zero exit (e.g. the interpreter was not found).
func ExitCode(err error) int {
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.ExitCode
	}
	return -1
}

type shRunner struct{}

// New returns a CommandRunner backed by the system shell.
func New() types.CommandRunner {
	return &shRunner{}
}

func (r *shRunner) Run(ctx context.Context, command string, stdout, stderr io.Writer) error {
	logger := logging.GetLogger("shell")
	logger.Debug().Str("command", command).Msg("running install step")

	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	err := cmd.Run()
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &CommandError{Command: command, ExitCode: exitErr.ExitCode(), Err: err}
	}
	return err
}
