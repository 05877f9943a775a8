package shell

import (
	"context"
	"fmt"
	"io"

	"github.com/arthur-debert/jtd/pkg/types"
)

// RecordingRunner is a CommandRunner for tests: it records every command
// instead of spawning processes, and fails commands on demand with a chosen
// exit code.
type RecordingRunner struct {
	// Commands holds every command passed to Run, in order.
	Commands []string

	// Failures maps a command string to the exit code Run should fail
	// with when it sees that command.
	Failures map[string]int

	// Output, when set, is written to stdout for every command.
	Output string
}

// NewRecorder returns an empty RecordingRunner.
func NewRecorder() *RecordingRunner {
	return &RecordingRunner{Failures: make(map[string]int)}
}

// FailOn makes the given command fail with the given exit code.
func (r *RecordingRunner) FailOn(command string, exitCode int) *RecordingRunner {
	if r.Failures == nil {
		r.Failures = make(map[string]int)
	}
	r.Failures[command] = exitCode
	return r
}

func (r *RecordingRunner) Run(_ context.Context, command string, stdout, _ io.Writer) error {
	r.Commands = append(r.Commands, command)

	if r.Output != "" && stdout != nil {
		fmt.Fprint(stdout, r.Output)
	}

	if code, ok := r.Failures[command]; ok {
		return &CommandError{Command: command, ExitCode: code}
	}
	return nil
}

var _ types.CommandRunner = (*RecordingRunner)(nil)
