package executil

import (
	"context"
	"io"
	"os/exec"
	"sync"
)

// RecordedCommand captures a command that was executed.
type RecordedCommand struct {
	Cmd   string
	Args  []string
	Stdin string
}

// RecordingExecutor captures commands for testing.
// Configure Errors and Missing to control return values.
type RecordingExecutor struct {
	mu       sync.Mutex
	Commands []RecordedCommand

	// Errors maps command names to their error.
	// Key is the command name (e.g., "pbcopy").
	Errors map[string]error

	// Missing lists programs LookPath does not find.
	Missing map[string]bool
}

// LookPath reports every program as found unless it is listed in Missing.
func (e *RecordingExecutor) LookPath(name string) (string, error) {
	if e.Missing[name] {
		return "", &exec.Error{Name: name, Err: exec.ErrNotFound}
	}
	return "/usr/bin/" + name, nil
}

// RunStdin records the command and its stdin and returns the configured error.
func (e *RecordingExecutor) RunStdin(_ context.Context, stdin io.Reader, cmd string, args ...string) error {
	var input string
	if stdin != nil {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return err
		}
		input = string(data)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.Commands = append(e.Commands, RecordedCommand{
		Cmd:   cmd,
		Args:  args,
		Stdin: input,
	})

	if e.Errors != nil {
		return e.Errors[cmd]
	}
	return nil
}
